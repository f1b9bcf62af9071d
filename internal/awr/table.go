package awr

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Rows returns the table's own rows. Rows of nested tables are excluded.
func Rows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				visit(c)
			}
		}
	}
	if table != nil {
		visit(table)
	}
	return rows
}

// Cells returns the td and th children of a row.
func Cells(row *html.Node) []*html.Node {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, c)
		}
	}
	return cells
}

// CellTexts returns the cleaned text of each cell in a row.
func CellTexts(row *html.Node) []string {
	cells := Cells(row)
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = NodeText(c)
	}
	return out
}

// KeyValues reads a two-column style table into key -> normalized value.
// Rows without enough cells or with an empty key are skipped.
func KeyValues(table *html.Node, keyCol, valueCol int) map[string]any {
	result := make(map[string]any)
	need := max(keyCol, valueCol)

	for _, row := range Rows(table) {
		cells := CellTexts(row)
		if len(cells) <= need {
			continue
		}
		key := cells[keyCol]
		if key == "" {
			continue
		}
		result[key] = ParseValue(cells[valueCol])
	}

	return result
}

// Records reads a header + rows table. The first row supplies the headers;
// each later row with at least as many cells becomes header -> cell text.
func Records(table *html.Node) []map[string]string {
	rows := Rows(table)
	if len(rows) == 0 {
		return nil
	}

	headers := CellTexts(rows[0])
	var records []map[string]string

	for _, row := range rows[1:] {
		cells := CellTexts(row)
		if len(cells) < len(headers) {
			continue
		}
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			rec[h] = cells[i]
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}

	return records
}
