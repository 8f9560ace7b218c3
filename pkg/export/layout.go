package export

import (
	"fmt"
	"regexp"
	"strings"
)

var divRe = regexp.MustCompile(`(?i)<div\b((?:"[^"]*"|'[^']*'|[^'">])*)>|</div\s*>`)

const tableAttrs = ` role="presentation" width="100%" cellpadding="0" cellspacing="0" border="0"`

// convertLayout rewrites <div data-layout="..."> containers as tables.
// Divs without data-layout are left alone.
func (p *pipeline) convertLayout() {
	var (
		b       strings.Builder
		closers []string // per open div, the markup that closes it
		parents []string // layout of each open div, "" for plain divs
		last    int
		unknown = make(map[string]struct{})
	)
	b.Grow(len(p.html) + len(p.html)/4)

	for _, m := range divRe.FindAllStringSubmatchIndex(p.html, -1) {
		b.WriteString(p.html[last:m[0]])
		last = m[1]
		tag := p.html[m[0]:m[1]]

		if m[2] < 0 { // closing tag
			if n := len(closers); n > 0 {
				b.WriteString(closers[n-1])
				closers = closers[:n-1]
				parents = parents[:n-1]
			} else {
				b.WriteString(tag)
			}
			continue
		}

		e := &element{name: "div", attrs: p.html[m[2]:m[3]]}
		layout, ok := e.attr("data-layout")
		if !ok {
			b.WriteString(tag)
			closers = append(closers, "</div>")
			parents = append(parents, "")
			continue
		}
		layout = strings.ToLower(strings.TrimSpace(layout))

		parent := ""
		for i := len(parents) - 1; i >= 0; i-- {
			if parents[i] != "" {
				parent = parents[i]
				break
			}
		}

		switch layout {
		case "section", "row", "container":
		case "columns":
		case "column":
			if parent != "columns" {
				p.warn(TypeLayout, SeverityWarning, "column outside of a columns container converted as a section")
				layout = "section"
			}
		default:
			if _, seen := unknown[layout]; !seen {
				unknown[layout] = struct{}{}
				p.warn(TypeLayout, SeverityWarning, fmt.Sprintf("unknown layout %q converted as a section", layout))
			}
			layout = "section"
		}

		open, closer := layoutMarkup(layout, e)
		b.WriteString(open)
		closers = append(closers, closer)
		parents = append(parents, layout)
		p.stats.ConvertedElements++
	}
	b.WriteString(p.html[last:])
	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteString(closers[i])
	}
	if len(closers) > 0 {
		p.warn(TypeLayout, SeverityInfo, fmt.Sprintf("closed %d unterminated div(s)", len(closers)))
	}
	p.html = b.String()
}

// layoutMarkup returns the opening and closing markup for a layout div.
// Styles move to the cell so padding and backgrounds render in Outlook.
func layoutMarkup(layout string, div *element) (string, string) {
	styleAttr := ""
	if s := div.styles(); len(s) > 0 {
		styleAttr = ` style="` + escapeAttr(s.String()) + `"`
	}
	classAttr := ""
	if c, ok := div.attr("class"); ok && c != "" {
		classAttr = ` class="` + escapeAttr(c) + `"`
	}

	switch layout {
	case "columns":
		return "<table" + classAttr + tableAttrs + styleAttr + "><tr>", "</tr></table>"
	case "column":
		widthAttr := ""
		if w, ok := div.attr("data-width"); ok && w != "" {
			widthAttr = ` width="` + escapeAttr(w) + `"`
		}
		return `<td valign="top"` + classAttr + widthAttr + styleAttr + ">", "</td>"
	default:
		return "<table" + classAttr + tableAttrs + "><tr><td" + styleAttr + ">", "</td></tr></table>"
	}
}
