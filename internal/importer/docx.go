package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/sententia/internal/doctree"
)

// DOCXImporter reads Word documents. Paragraphs styled "Heading N" or
// "Title" open sections.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, filename string) (*doctree.Tree, error) {
	path, cleanup, err := spool(r, "sententia-docx-*.docx")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open temp file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat temp file: %w", err)
	}
	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	o := newOutline()
	for i, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if level := styleLevel(para); level > 0 {
			o.heading(level, text, i+1)
			continue
		}
		o.paragraph(text, i+1)
	}
	return o.tree(title(filename)), nil
}

func styleLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	return headingStyle(para.Properties.Style.Val)
}

// headingStyle maps "Heading1", "heading 2" and "Title" styles to a level.
func headingStyle(name string) int {
	style := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if style == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
