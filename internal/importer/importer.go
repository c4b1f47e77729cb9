// Package importer turns uploaded documents into a doctree.Tree whose
// passages feed the sentence splitter.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/sententia/internal/doctree"
)

// Importer reads one document format.
type Importer interface {
	Import(r io.Reader, filename string) (*doctree.Tree, error)
}

var importers = map[string]func() Importer{
	".txt":      func() Importer { return &TextImporter{} },
	".md":       func() Importer { return &MarkdownImporter{} },
	".markdown": func() Importer { return &MarkdownImporter{} },
	".csv":      func() Importer { return &CSVImporter{} },
	".html":     func() Importer { return &HTMLImporter{} },
	".htm":      func() Importer { return &HTMLImporter{} },
	".pdf":      func() Importer { return &PDFImporter{} },
	".docx":     func() Importer { return &DOCXImporter{} },
}

// ForFile picks an importer by file extension.
func ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mk, ok := importers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
	return mk(), nil
}

// IsSupported reports whether filename has an importable extension.
func IsSupported(filename string) bool {
	_, ok := importers[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// title strips the extension from a file name.
func title(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outline nests sections by heading level while prose accumulates under the
// innermost open heading.
type outline struct {
	root  *doctree.Section
	stack []outlineEntry
	text  strings.Builder
	src   int
}

type outlineEntry struct {
	sec   *doctree.Section
	level int
}

func newOutline() *outline {
	root := &doctree.Section{}
	return &outline{root: root, stack: []outlineEntry{{sec: root}}}
}

// heading opens a section at level (1 = top), closing deeper or equal ones.
func (o *outline) heading(level int, heading string, source int) {
	o.flush()
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	sec := &doctree.Section{Heading: heading, Source: source}
	parent := o.stack[len(o.stack)-1].sec
	parent.Children = append(parent.Children, sec)
	o.stack = append(o.stack, outlineEntry{sec: sec, level: level})
}

// paragraph appends prose to the current section.
func (o *outline) paragraph(t string, source int) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if o.text.Len() == 0 {
		o.src = source
	} else {
		o.text.WriteString("\n\n")
	}
	o.text.WriteString(t)
}

func (o *outline) flush() {
	if o.text.Len() == 0 {
		return
	}
	top := o.stack[len(o.stack)-1].sec
	if top.Text != "" {
		top.Text += "\n\n" + o.text.String()
	} else {
		top.Text = o.text.String()
		if top.Source == 0 {
			top.Source = o.src
		}
	}
	o.text.Reset()
}

// tree finishes the outline. Prose before the first heading becomes an
// untitled leading section.
func (o *outline) tree(name string) *doctree.Tree {
	o.flush()
	t := &doctree.Tree{Title: name}
	if o.root.Text != "" {
		t.Sections = append(t.Sections, &doctree.Section{Text: o.root.Text, Source: o.root.Source})
	}
	t.Sections = append(t.Sections, o.root.Children...)
	return t
}
