package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/contentpeak/opplens/internal/export"
)

func main() {
	var (
		input  = flag.String("input", "", "HTML keyword report (required)")
		output = flag.String("output", "", "TSV file to write (default: stdout)")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("read report: %v", err)
	}

	file, err := extractTable(string(data))
	if err != nil {
		log.Fatalf("extract table: %v", err)
	}

	tsv := export.FormatTSV(file)
	if *output == "" {
		fmt.Print(tsv)
		return
	}
	if err := os.WriteFile(*output, []byte(tsv), 0644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("Wrote %d rows to %s", len(file.Rows), *output)
}

// extractTable converts the first <table> of an HTML document into header
// and data rows. The first row that has any cells becomes the header.
func extractTable(doc string) (export.File, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return export.File{}, fmt.Errorf("parse html: %w", err)
	}

	table := findTable(root)
	if table == nil {
		return export.File{}, fmt.Errorf("no <table> element found")
	}

	var f export.File
	for _, row := range tableRows(table) {
		cells := rowCells(row)
		if len(cells) == 0 {
			continue
		}
		if f.Header == nil {
			f.Header = cells
			continue
		}
		f.Rows = append(f.Rows, cells)
	}

	if f.Header == nil {
		return export.File{}, fmt.Errorf("table has no rows")
	}
	return f, nil
}

// findTable returns the first table element in document order.
func findTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTable(c); t != nil {
			return t
		}
	}
	return nil
}

// tableRows collects the <tr> elements of one table, descending through
// section wrappers like <thead> and <tbody> but not into nested tables.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				if c.Data == "tr" {
					rows = append(rows, c)
					continue
				}
				if c.Data == "table" {
					continue
				}
			}
			walk(c)
		}
	}
	walk(table)
	return rows
}

// rowCells renders the <th> and <td> children of a row as text.
func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data != "td" && c.Data != "th" {
			continue
		}
		cells = append(cells, cellText(c))
	}
	return cells
}

// cellText gathers the text nodes under a cell and collapses runs of
// whitespace so the value stays a single TSV field.
func cellText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)

	return strings.Join(strings.Fields(buf.String()), " ")
}
