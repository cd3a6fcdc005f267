// Package arxiv extracts text from arXiv HTML papers rendered by LaTeXML.
//
// The output is assembled in a fixed order: title, authors with affiliations,
// abstract, then sections S1 to S8. Missing parts become placeholder text so a
// partially matching page still yields a usable document.
package arxiv

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/preprocessors/dom"
)

// Placeholders emitted for missing parts.
const (
	TitleNotFound    = "Title not found"
	AbstractNotFound = "Abstract not found"
	SectionNotFound  = "Section not found"
	DefaultAbstract  = "Abstract"
)

// SectionCount is the number of numbered sections extracted.
const SectionCount = 8

const partSeparator = "\n\n"

var (
	isTitle         = dom.Element([]atom.Atom{atom.H1}, "ltx_title", "ltx_title_document")
	isAuthorsBlock  = dom.Element([]atom.Atom{atom.Div}, "ltx_authors")
	isAuthor        = dom.Element([]atom.Atom{atom.Span}, "ltx_creator", "ltx_role_author")
	isPersonName    = dom.Element([]atom.Atom{atom.Span}, "ltx_personname")
	isAffiliation   = dom.Element([]atom.Atom{atom.Span}, "ltx_contact", "ltx_role_affiliation")
	isAbstract      = dom.Element([]atom.Atom{atom.Div}, "ltx_abstract")
	isAbstractTitle = dom.Element([]atom.Atom{atom.H6}, "ltx_title", "ltx_title_abstract")
	isParagraph     = dom.Element([]atom.Atom{atom.P}, "ltx_p")
	isNote          = dom.Element([]atom.Atom{atom.Span}, "ltx_note")
	isHeading       = dom.Element([]atom.Atom{atom.H2, atom.H3}, "ltx_title")
	isSubheading    = dom.Element([]atom.Atom{atom.H3}, "ltx_title", "ltx_title_subsection")
)

// Verify interface compliance.
var _ driven.Preprocessor = (*Preprocessor)(nil)

// Preprocessor handles the arXiv paper document shape.
type Preprocessor struct{}

// New creates an arXiv paper preprocessor.
func New() *Preprocessor {
	return &Preprocessor{}
}

// Shape returns domain.ShapeArxivPaper.
func (p *Preprocessor) Shape() domain.DocumentShape {
	return domain.ShapeArxivPaper
}

// GetText returns title, authors, abstract and sections joined by blank lines.
func (p *Preprocessor) GetText(raw string) (string, error) {
	doc, err := dom.Parse(raw)
	if err != nil {
		return "", err
	}

	parts := []string{
		Title(doc),
		Authors(doc),
		Abstract(doc),
	}
	for i := 1; i <= SectionCount; i++ {
		parts = append(parts, Section(doc, fmt.Sprintf("S%d", i)))
	}
	return strings.Join(parts, partSeparator), nil
}

// Title returns the document title.
func Title(doc *html.Node) string {
	n := dom.Find(doc, isTitle)
	if n == nil {
		return TitleNotFound
	}
	return dom.Text(n, nil)
}

// Authors returns one "name: affiliation" line per author, each followed by a
// blank line. Multiple affiliations are joined by spaces.
func Authors(doc *html.Node) string {
	var lines []string
	for _, block := range dom.FindAll(doc, isAuthorsBlock) {
		for _, author := range dom.FindAll(block, isAuthor) {
			name := ""
			if n := dom.Find(author, isPersonName); n != nil {
				name = dom.Text(n, nil)
			}

			var affiliations []string
			for _, a := range dom.FindAll(author, isAffiliation) {
				affiliations = append(affiliations, dom.Text(a, nil))
			}

			lines = append(lines, name+": "+strings.Join(affiliations, " ")+partSeparator)
		}
	}
	return strings.Join(lines, "\n")
}

// Abstract returns the abstract title and first paragraph with footnotes removed.
func Abstract(doc *html.Node) string {
	block := dom.Find(doc, isAbstract)
	if block == nil {
		return AbstractNotFound
	}

	title := DefaultAbstract
	if n := dom.Find(block, isAbstractTitle); n != nil {
		title = dom.Text(n, nil)
	}

	para := dom.Find(block, isParagraph)
	if para == nil {
		return AbstractNotFound
	}
	return title + partSeparator + dom.Text(para, isNote)
}

// Section renders the section with the given id: its heading, then paragraphs
// and subsection headings in document order. Subsection headings are preceded
// by a blank line.
func Section(doc *html.Node, id string) string {
	hasID := dom.ID(id)
	section := dom.Find(doc, func(n *html.Node) bool {
		return dom.IsElement(n, atom.Section) && hasID(n)
	})
	if section == nil {
		return SectionNotFound
	}

	var out []string
	if heading := dom.Find(section, isHeading); heading != nil {
		out = append(out, dom.Text(heading, nil))
	}

	body := dom.FindAll(section, func(n *html.Node) bool {
		return isParagraph(n) || isSubheading(n)
	})
	for _, n := range body {
		if n.DataAtom == atom.H3 {
			out = append(out, partSeparator+dom.Text(n, nil))
			continue
		}
		out = append(out, dom.Text(n, nil))
	}
	return strings.Join(out, partSeparator)
}
