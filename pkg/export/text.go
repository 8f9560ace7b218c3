package export

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

var (
	spaceRunRe = regexp.MustCompile(`[ \t\f\r]+`)
	newlineRe  = regexp.MustCompile(`\n{3,}`)
)

// PlainText derives a plain-text alternative from an HTML email. Hidden
// elements, comments and the head are skipped; links keep their target in
// parentheses and images are replaced by their alt text.
func PlainText(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	walkText(&b, doc)

	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(spaceRunRe.ReplaceAllString(l, " "))
	}
	out := newlineRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out), nil
}

func walkText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		return
	case html.ElementNode:
		if skipElement(n) {
			return
		}
		switch n.DataAtom {
		case atom.Br:
			b.WriteString("\n")
			return
		case atom.Hr:
			b.WriteString("\n----------\n")
			return
		case atom.Img:
			if alt := attr(n, "alt"); alt != "" {
				b.WriteString("[" + alt + "]")
			}
			return
		case atom.A:
			start := b.Len()
			walkChildren(b, n)
			href := attr(n, "href")
			label := strings.TrimSpace(b.String()[start:])
			if href != "" && href != "#" && href != label && !strings.HasPrefix(href, "mailto:") {
				b.WriteString(" (" + href + ")")
			}
			return
		case atom.Li:
			b.WriteString("\n- ")
			walkChildren(b, n)
			return
		case atom.Td, atom.Th:
			walkChildren(b, n)
			b.WriteString(" ")
			return
		}
		if isBlock(n.DataAtom) {
			b.WriteString("\n")
			walkChildren(b, n)
			b.WriteString("\n")
			if isHeading(n.DataAtom) || n.DataAtom == atom.P {
				b.WriteString("\n")
			}
			return
		}
	}
	walkChildren(b, n)
}

func walkChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(b, c)
	}
}

func skipElement(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Head, atom.Style, atom.Script, atom.Title:
		return true
	}
	s := style.ParseInline(attr(n, "style"))
	if v, ok := s["display"]; ok && strings.EqualFold(v, "none") {
		return true
	}
	return false
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Table, atom.Tr, atom.Ul, atom.Ol,
		atom.Blockquote, atom.Section, atom.Header, atom.Footer:
		return true
	}
	return isHeading(a)
}

func isHeading(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
