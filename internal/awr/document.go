package awr

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseError reports a document that could not be tokenized into a tree.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing AWR document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Document is a tokenized AWR report. It is owned by a single parse call.
type Document struct {
	root *html.Node
	// elements in document order, used for "next table after" lookups
	order  []*html.Node
	index  map[*html.Node]int
	tables []*html.Node
}

func NewDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	d := &Document{
		root:  root,
		index: make(map[*html.Node]int),
	}
	d.walk(root)
	return d, nil
}

func (d *Document) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		d.index[n] = len(d.order)
		d.order = append(d.order, n)
		if n.DataAtom == atom.Table {
			d.tables = append(d.tables, n)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.walk(c)
	}
}

// Tables returns every table element in document order, nested ones included.
func (d *Document) Tables() []*html.Node {
	return d.tables
}

// Elements returns the elements with any of the given tags, in document order.
func (d *Document) Elements(tags ...atom.Atom) []*html.Node {
	var out []*html.Node
	for _, n := range d.order {
		for _, t := range tags {
			if n.DataAtom == t {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// Text returns the cleaned text content of the whole document.
func (d *Document) Text() string {
	return NodeText(d.root)
}

// FindTableByHeader locates a section's table. Strategies, first hit wins:
//  1. a th cell containing the header -> its enclosing table
//  2. a named anchor containing the header (spaces removed) -> next table
//  3. an h2/h3/b heading containing the header -> next table
func (d *Document) FindTableByHeader(header string) *html.Node {
	want := strings.ToLower(header)

	for _, th := range d.Elements(atom.Th) {
		if strings.Contains(strings.ToLower(NodeText(th)), want) {
			if t := enclosingTable(th); t != nil {
				return t
			}
		}
	}

	anchor := strings.ReplaceAll(want, " ", "")
	for _, a := range d.Elements(atom.A) {
		name, ok := attr(a, "name")
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(name), anchor) {
			if t := d.nextTable(a); t != nil {
				return t
			}
		}
	}

	for _, h := range d.Elements(atom.H2, atom.H3, atom.B) {
		if strings.Contains(strings.ToLower(NodeText(h)), want) {
			if t := d.nextTable(h); t != nil {
				return t
			}
		}
	}

	slog.Warn("table not found", "header", header)
	return nil
}

func (d *Document) nextTable(n *html.Node) *html.Node {
	i, ok := d.index[n]
	if !ok {
		return nil
	}
	for _, el := range d.order[i+1:] {
		if el.DataAtom == atom.Table {
			return el
		}
	}
	return nil
}

func enclosingTable(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Table {
			return p
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// NodeText returns the cleaned text content of n and its descendants.
func NodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	collectText(n, &sb)
	return CleanText(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
		if n.DataAtom == atom.Br {
			sb.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
	// keep adjacent cells from running together
	if n.Type == html.ElementNode && isBlock(n.DataAtom) {
		sb.WriteByte(' ')
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.Td, atom.Th, atom.Tr, atom.P, atom.Div, atom.Li,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.Table:
		return true
	}
	return false
}
