package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/sententia/internal/doctree"
)

// textColumns are header names recognized as holding the Latin text, in
// order of preference. Without a match the first column is used.
var textColumns = []string{"latin", "text", "sentence", "line"}

// CSVImporter reads one passage per data row from the text column. A
// "section" or "ref" column, when present, becomes the heading.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (*doctree.Tree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.Tree{Title: title(filename)}
	if len(records) == 0 {
		return tree, nil
	}

	headers := records[0]
	textCol := column(headers, textColumns...)
	if textCol < 0 {
		textCol = 0
	}
	refCol := column(headers, "section", "ref")

	for i, row := range records[1:] {
		if textCol >= len(row) || strings.TrimSpace(row[textCol]) == "" {
			continue
		}
		sec := &doctree.Section{Text: row[textCol], Source: i + 2}
		if refCol >= 0 && refCol < len(row) {
			sec.Heading = strings.TrimSpace(row[refCol])
		}
		tree.Sections = append(tree.Sections, sec)
	}
	return tree, nil
}

func column(headers []string, names ...string) int {
	for _, name := range names {
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}
