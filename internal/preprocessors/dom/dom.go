// Package dom provides small query helpers over golang.org/x/net/html trees.
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Predicate reports whether a node matches.
type Predicate func(n *html.Node) bool

// Parse parses raw markup into a document tree.
func Parse(raw string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return doc, nil
}

// Attr returns the value of attribute key, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}

// HasClass reports whether n is an element carrying every class in classes.
func HasClass(n *html.Node, classes ...string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	have := Classes(n)
	for _, want := range classes {
		found := false
		for _, c := range have {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// HasAnyClass reports whether n is an element carrying at least one of classes.
func HasAnyClass(n *html.Node, classes ...string) bool {
	for _, c := range classes {
		if HasClass(n, c) {
			return true
		}
	}
	return false
}

// IsElement reports whether n is an element with one of the given tags.
func IsElement(n *html.Node, tags ...atom.Atom) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.DataAtom == t {
			return true
		}
	}
	return false
}

// Element matches elements with one of tags that carry every class in classes.
func Element(tags []atom.Atom, classes ...string) Predicate {
	return func(n *html.Node) bool {
		return IsElement(n, tags...) && HasClass(n, classes...)
	}
}

// ID matches the element whose id attribute equals id.
func ID(id string) Predicate {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && Attr(n, "id") == id
	}
}

// Find returns the first descendant of root matching pred in document order.
func Find(root *html.Node, pred Predicate) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if pred(c) {
			return c
		}
		if found := Find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant of root matching pred in document order.
// Matches nested inside other matches are included.
func FindAll(root *html.Node, pred Predicate) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if pred(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// FindOutermost returns descendants matching pred without descending into matches.
func FindOutermost(root *html.Node, pred Predicate, skip Predicate) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if skip != nil && skip(c) {
				continue
			}
			if pred(c) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// nonText matches subtrees that never contribute visible text.
func nonText(n *html.Node) bool {
	return IsElement(n, atom.Script, atom.Style, atom.Noscript, atom.Template)
}

// RawText concatenates the text nodes under n, skipping script and style
// subtrees and any subtree matching skip.
func RawText(n *html.Node, skip Predicate) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if nonText(c) || (skip != nil && skip(c)) {
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// Text returns the visible text under n with whitespace runs collapsed and
// the result trimmed.
func Text(n *html.Node, skip Predicate) string {
	return strings.Join(strings.Fields(RawText(n, skip)), " ")
}
