// Package htmlutil wraps rendered markup in a read-only tree queried with css selectors.
//
// Every Document owns its own parsed tree. Nothing exposed here mutates a tree in
// place: Node.Without clones before removing anything, so extracting twice from the
// same Document always yields the same result.
package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed page.
type Document struct {
	doc *goquery.Document
}

// Parse parses an html string into a Document. Malformed markup is repaired the way a
// browser would, so this only fails when the reader itself fails.
func Parse(markup string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Document{}, err
	}
	return Document{doc: doc}, nil
}

// Find returns every element matching selector in document order.
func (d Document) Find(selector string) []Node {
	if d.doc == nil {
		return nil
	}
	return nodes(d.doc.Find(selector))
}

// First returns the first element matching selector.
func (d Document) First(selector string) (Node, bool) {
	if d.doc == nil {
		return Node{}, false
	}
	return first(d.doc.Find(selector))
}

// Title returns the trimmed contents of <title>.
func (d Document) Title() string {
	n, ok := d.First("title")
	if !ok {
		return ""
	}
	return n.Text()
}

// Node is a single element of a Document.
type Node struct {
	sel *goquery.Selection
}

func nodes(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Node{sel: s})
	})
	return out
}

func first(sel *goquery.Selection) (Node, bool) {
	if sel.Length() == 0 {
		return Node{}, false
	}
	return Node{sel: sel.First()}, true
}

// Valid reports whether the node points at an element.
func (n Node) Valid() bool {
	return n.sel != nil && n.sel.Length() > 0
}

// Find returns every descendant of n matching selector.
func (n Node) Find(selector string) []Node {
	if !n.Valid() {
		return nil
	}
	return nodes(n.sel.Find(selector))
}

// First returns the first descendant of n matching selector.
func (n Node) First(selector string) (Node, bool) {
	if !n.Valid() {
		return Node{}, false
	}
	return first(n.sel.Find(selector))
}

// Text returns the trimmed text of n including all its descendants.
func (n Node) Text() string {
	if !n.Valid() {
		return ""
	}
	return strings.TrimSpace(n.sel.Text())
}

// OwnText returns the trimmed text of n excluding the text of child elements.
func (n Node) OwnText() string {
	if !n.Valid() {
		return ""
	}
	var buffer bytes.Buffer
	for _, node := range n.sel.Nodes {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				buffer.WriteString(child.Data)
			}
		}
	}
	return strings.TrimSpace(buffer.String())
}

// Attr returns the value of an attribute and whether it was present.
func (n Node) Attr(name string) (string, bool) {
	if !n.Valid() {
		return "", false
	}
	return n.sel.Attr(name)
}

// AttrOr returns the trimmed value of an attribute, or fallback when it is absent.
func (n Node) AttrOr(name, fallback string) string {
	value, ok := n.Attr(name)
	if !ok {
		return fallback
	}
	return strings.TrimSpace(value)
}

// Next returns the immediately following sibling element.
func (n Node) Next() (Node, bool) {
	if !n.Valid() {
		return Node{}, false
	}
	return first(n.sel.Next())
}

// Tag returns the lowercase tag name.
func (n Node) Tag() string {
	if !n.Valid() {
		return ""
	}
	return goquery.NodeName(n.sel)
}

// HTML returns the outer html of n.
func (n Node) HTML() string {
	if !n.Valid() {
		return ""
	}
	out, err := goquery.OuterHtml(n.sel)
	if err != nil {
		return ""
	}
	return out
}

// Without returns a detached copy of n with the first descendant matching selector
// removed. n itself is left untouched.
func (n Node) Without(selector string) Node {
	if !n.Valid() {
		return n
	}
	clone := n.sel.First().Clone()
	clone.Find(selector).First().Remove()
	return Node{sel: clone}
}

// LazyAttr returns the lazy-load source of an image (data-src) when it is set,
// otherwise its eager src.
func LazyAttr(n Node) string {
	if lazy := n.AttrOr("data-src", ""); lazy != "" {
		return lazy
	}
	return n.AttrOr("src", "")
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// NormalizeSpace drops non-printable characters, trims the ends and collapses runs of
// whitespace into a single space.
func NormalizeSpace(s string) string {
	var out strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			out.WriteRune(c)
		}
	}
	trimmed := strings.TrimSpace(out.String())
	return innerWhitespace.ReplaceAllString(trimmed, " ")
}
