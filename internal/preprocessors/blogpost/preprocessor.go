// Package blogpost extracts article text from blog layouts that mark their
// regions with post-title, post-header and post-content classes.
package blogpost

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/preprocessors/dom"
)

// RegionClasses are the class names of the regions kept by the preprocessor.
var RegionClasses = []string{"post-title", "post-header", "post-content"}

// Verify interface compliance.
var _ driven.Preprocessor = (*Preprocessor)(nil)

// Preprocessor handles the blog-post document shape.
type Preprocessor struct{}

// New creates a blog-post preprocessor.
func New() *Preprocessor {
	return &Preprocessor{}
}

// Shape returns domain.ShapeBlogPost.
func (p *Preprocessor) Shape() domain.DocumentShape {
	return domain.ShapeBlogPost
}

// GetText returns the text of every title, header and content region in
// document order, one region per line. Navigation, footers and scripts are
// dropped. A page without any region yields "".
func (p *Preprocessor) GetText(raw string) (string, error) {
	doc, err := dom.Parse(raw)
	if err != nil {
		return "", err
	}

	isRegion := func(n *html.Node) bool { return dom.HasAnyClass(n, RegionClasses...) }
	isChrome := func(n *html.Node) bool { return dom.IsElement(n, atom.Nav, atom.Footer) }

	var parts []string
	for _, region := range dom.FindOutermost(doc, isRegion, isChrome) {
		if text := strings.TrimSpace(dom.RawText(region, isChrome)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
