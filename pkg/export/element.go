package export

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

// tagRe matches an opening or self-closing tag. Quoted attribute values
// may contain '>'.
var tagRe = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)((?:"[^"]*"|'[^']*'|[^'">])*)>`)

var attrPatterns sync.Map

func attrRe(name string) *regexp.Regexp {
	if re, ok := attrPatterns.Load(name); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)(\s)` + regexp.QuoteMeta(name) + `(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>/]+)))?(?:\s|/|$)`)
	attrPatterns.Store(name, re)
	return re
}

// element is one opening tag. attrs is the raw text between the tag name
// and the closing '>', including a trailing '/' for self-closing tags.
type element struct {
	name  string
	attrs string
}

func (e *element) is(names ...string) bool {
	for _, n := range names {
		if strings.EqualFold(e.name, n) {
			return true
		}
	}
	return false
}

func (e *element) find(name string) []int {
	return attrRe(name).FindStringSubmatchIndex(e.attrs)
}

func (e *element) has(name string) bool {
	return e.find(name) != nil
}

// attr returns the unescaped attribute value. A valueless attribute yields
// "" and true.
func (e *element) attr(name string) (string, bool) {
	m := e.find(name)
	if m == nil {
		return "", false
	}
	for g := 2; g <= 4; g++ {
		if m[2*g] >= 0 {
			return html.UnescapeString(e.attrs[m[2*g]:m[2*g+1]]), true
		}
	}
	return "", true
}

func (e *element) set(name, value string) {
	attr := name + `="` + escapeAttr(value) + `"`
	if m := e.find(name); m != nil {
		// keep the leading whitespace and whatever terminated the match
		end := m[1]
		term := e.attrs[m[1]-1 : m[1]]
		if term == "/" || isSpace(term) {
			end--
		}
		e.attrs = e.attrs[:m[3]] + attr + e.attrs[end:]
		return
	}
	trimmed := strings.TrimRight(e.attrs, " \t\r\n")
	if strings.HasSuffix(trimmed, "/") {
		e.attrs = strings.TrimRight(strings.TrimSuffix(trimmed, "/"), " \t\r\n") + " " + attr + " /"
		return
	}
	e.attrs = trimmed + " " + attr
}

func (e *element) remove(name string) {
	m := e.find(name)
	if m == nil {
		return
	}
	end := m[1]
	term := e.attrs[m[1]-1 : m[1]]
	if term == "/" || isSpace(term) {
		end--
	}
	e.attrs = e.attrs[:m[2]] + e.attrs[end:]
}

func (e *element) styles() style.Styles {
	v, _ := e.attr("style")
	return style.ParseInline(v)
}

// setStyles writes s back, dropping the attribute when s is empty.
func (e *element) setStyles(s style.Styles) {
	if len(s) == 0 {
		e.remove("style")
		return
	}
	e.set("style", s.String())
}

func (e *element) classes() []string {
	v, _ := e.attr("class")
	return strings.Fields(v)
}

func (e *element) String() string {
	return "<" + e.name + e.attrs + ">"
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

func isSpace(s string) bool {
	return strings.TrimSpace(s) == ""
}

// mapTags calls fn for every opening tag in s and rebuilds s from the
// possibly modified elements. fn returns false to drop the tag.
func mapTags(s string, fn func(e *element) bool) string {
	matches := tagRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		e := &element{name: s[m[2]:m[3]], attrs: s[m[4]:m[5]]}
		if fn(e) {
			b.WriteString(e.String())
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
