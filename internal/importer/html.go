package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/sententia/internal/doctree"
)

// HTMLImporter reads HTML. h1-h6 nest sections; p, li, blockquote and td
// elements contribute prose. The <title> element names the tree.
type HTMLImporter struct{}

var skippedElements = map[string]bool{
	"script": true, "style": true, "nav": true, "footer": true, "header": true, "aside": true,
}

var proseElements = map[string]bool{
	"p": true, "li": true, "td": true, "blockquote": true, "dd": true,
}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*doctree.Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	o := newOutline()
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case skippedElements[n.Data]:
				return
			case headingLevel(n.Data) > 0:
				o.heading(headingLevel(n.Data), textContent(n), 0)
				return
			case proseElements[n.Data]:
				o.paragraph(textContent(n), 0)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if body := find(doc, "body"); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	name := title(filename)
	if t := find(doc, "title"); t != nil && textContent(t) != "" {
		name = textContent(t)
	}
	return o.tree(name), nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// textContent joins the text below n with single spaces.
func textContent(n *html.Node) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, strings.Fields(n.Data)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(parts, " ")
}

// find returns the first element named tag in document order.
func find(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, tag); f != nil {
			return f
		}
	}
	return nil
}
