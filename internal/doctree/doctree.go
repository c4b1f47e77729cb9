// Package doctree models an imported document as nested sections of prose
// and flattens it into passages ready for sentence splitting.
package doctree

import "strings"

// Tree is the root of an imported document.
type Tree struct {
	Title    string     // from metadata or the file name
	Sections []*Section // top-level sections
}

// Section is a heading with its prose and subsections.
type Section struct {
	Heading  string     // empty for untitled prose
	Text     string     // paragraphs separated by blank lines
	Source   int        // page or line the text starts on, 0 if unknown
	Children []*Section // subsections
}

// Passage is one paragraph of prose with its heading path.
type Passage struct {
	Text       string
	Index      int
	Breadcrumb []string // e.g. ["Liber I", "Caput 3"]
	Source     int
}

// Passages flattens the tree into paragraphs in document order.
func (t *Tree) Passages() []Passage {
	var out []Passage
	for _, s := range t.Sections {
		out = s.collect(nil, out)
	}
	return out
}

func (s *Section) collect(breadcrumb []string, out []Passage) []Passage {
	bc := breadcrumb
	if s.Heading != "" {
		bc = append(append([]string(nil), breadcrumb...), s.Heading)
	}
	for _, para := range strings.Split(s.Text, "\n\n") {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		out = append(out, Passage{
			Text:       para,
			Index:      len(out),
			Breadcrumb: copyBreadcrumb(bc),
			Source:     s.Source,
		})
	}
	for _, c := range s.Children {
		out = c.collect(bc, out)
	}
	return out
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
