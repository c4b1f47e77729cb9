package importer

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/sententia/internal/doctree"
)

// TextImporter reads plain text. Blank lines separate paragraphs; each
// paragraph records the line it starts on.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*doctree.Tree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	tree := &doctree.Tree{Title: title(filename)}
	var current strings.Builder
	start, line := 0, 0
	flush := func() {
		if current.Len() > 0 {
			tree.Sections = append(tree.Sections, &doctree.Section{Text: current.String(), Source: start})
			current.Reset()
		}
	}

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			flush()
			continue
		}
		if current.Len() == 0 {
			start = line
		} else {
			current.WriteString("\n")
		}
		current.WriteString(text)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return tree, nil
}
