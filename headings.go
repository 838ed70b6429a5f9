package pagescrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// block is one entry of the flattened document: a heading (level 1-6) or a run
// of body text (level 0).
type block struct {
	level int
	text  string
}

// skippedElements never contribute text.
var skippedElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

// inlineElements are merged with neighbouring text into a single block.
var inlineElements = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Bdi: true, atom.Bdo: true,
	atom.Br: true, atom.Cite: true, atom.Code: true, atom.Data: true, atom.Dfn: true,
	atom.Em: true, atom.I: true, atom.Kbd: true, atom.Label: true, atom.Mark: true,
	atom.Q: true, atom.S: true, atom.Samp: true, atom.Small: true, atom.Span: true,
	atom.Strong: true, atom.Sub: true, atom.Sup: true, atom.Time: true, atom.U: true,
	atom.Var: true, atom.Wbr: true, atom.Img: true,
}

func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

// extractHeadings pairs every heading with the body text that follows it up to
// the next heading of any level.
func extractHeadings(doc *goquery.Document) []HeadingNode {
	var blocks []block
	for _, n := range doc.Nodes {
		blocks = flatten(n, blocks)
	}
	return associate(blocks)
}

// associate runs a two-pointer scan over blocks: i stops on a heading, j walks
// forward over body blocks until the next heading, and blocks[i+1:j] become
// the heading's body. Text before the first heading is dropped.
func associate(blocks []block) []HeadingNode {
	var nodes []HeadingNode
	for i := 0; i < len(blocks); {
		if blocks[i].level == 0 {
			i++
			continue
		}
		j := i + 1
		for j < len(blocks) && blocks[j].level == 0 {
			j++
		}
		body := make([]string, 0, j-i-1)
		for _, b := range blocks[i+1 : j] {
			body = append(body, b.text)
		}
		nodes = append(nodes, HeadingNode{
			Level: blocks[i].level,
			Text:  blocks[i].text,
			Body:  strings.Join(body, "\n"),
		})
		i = j
	}
	return nodes
}

// flatten appends the blocks of n to out in document order.
func flatten(n *html.Node, out []block) []block {
	if n.Type == html.ElementNode {
		if skippedElements[n.DataAtom] {
			return out
		}
		if lvl := headingLevel(n); lvl > 0 {
			return append(out, block{level: lvl, text: collapseSpace(nodeText(n, nil))})
		}
		switch n.DataAtom {
		case atom.P:
			return appendText(out, collapseSpace(nodeText(n, nil)))
		case atom.Pre:
			return appendText(out, strings.TrimSpace(nodeText(n, nil)))
		case atom.Li:
			if containsHeading(n) {
				break
			}
			out = appendText(out, listItemText(n))
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if isList(c) {
					out = flatten(c, out)
				}
			}
			return out
		}
	}

	// Generic container: merge runs of text and inline elements, recurse into
	// everything else.
	var run strings.Builder
	flush := func() {
		out = appendText(out, collapseSpace(run.String()))
		run.Reset()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			run.WriteString(c.Data)
		case c.Type == html.ElementNode && inlineElements[c.DataAtom] && !containsHeading(c):
			run.WriteString(nodeText(c, nil))
		default:
			flush()
			out = flatten(c, out)
		}
	}
	flush()
	return out
}

func appendText(out []block, text string) []block {
	if text == "" {
		return out
	}
	return append(out, block{text: text})
}

func listItemText(li *html.Node) string {
	text := collapseSpace(nodeText(li, isList))
	if text == "" {
		return ""
	}
	return "- " + text
}

func containsHeading(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (headingLevel(c) > 0 || containsHeading(c)) {
			return true
		}
	}
	return false
}

func isList(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Ul || n.DataAtom == atom.Ol)
}

// nodeText concatenates the text below n, skipping non-content elements and
// any subtree for which skip returns true. Block-level children are set off by
// line breaks so their words never run together.
func nodeText(n *html.Node, skip func(*html.Node) bool) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				if skippedElements[c.DataAtom] || (skip != nil && skip(c)) {
					continue
				}
				if c.DataAtom == atom.Br {
					b.WriteString("\n")
					continue
				}
				if inlineElements[c.DataAtom] {
					walk(c)
					continue
				}
				b.WriteString("\n")
				walk(c)
				b.WriteString("\n")
			}
		}
	}
	walk(n)
	return b.String()
}
