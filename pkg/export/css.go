package export

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

var (
	styleRe     = regexp.MustCompile(`(?is)<style\b[^>]*>(.*?)</style\s*>`)
	cssCommentR = regexp.MustCompile(`(?s)/\*.*?\*/`)
	// tag, optionally followed by classes, or classes alone
	simpleSelectorRe = regexp.MustCompile(`^(?:([a-zA-Z][a-zA-Z0-9]*)((?:\.[A-Za-z_-][A-Za-z0-9_-]*)*)|((?:\.[A-Za-z_-][A-Za-z0-9_-]*)+))$`)
)

// cssRule is one rule block from a <style> element.
type cssRule struct {
	selectors []string
	decls     style.Styles
}

// selector is a parsed simple selector.
type selector struct {
	tag     string
	classes []string
}

// specificity orders tag selectors below class selectors.
func (s selector) specificity() int {
	n := len(s.classes) * 10
	if s.tag != "" {
		n++
	}
	return n
}

func (s selector) matches(e *element) bool {
	if s.tag != "" && !strings.EqualFold(s.tag, e.name) {
		return false
	}
	if len(s.classes) == 0 {
		return true
	}
	have := e.classes()
	for _, c := range s.classes {
		if !slices.Contains(have, c) {
			return false
		}
	}
	return true
}

func parseSelector(sel string) (selector, bool) {
	m := simpleSelectorRe.FindStringSubmatch(strings.TrimSpace(sel))
	if m == nil {
		return selector{}, false
	}
	classes := m[2]
	if m[3] != "" {
		classes = m[3]
	}
	var out selector
	out.tag = strings.ToLower(m[1])
	for _, c := range strings.Split(classes, ".") {
		if c != "" {
			out.classes = append(out.classes, c)
		}
	}
	return out, true
}

// extractStyles removes every <style> element, collecting plain rules for
// inlining and @media / @font-face blocks for the document head.
func (p *pipeline) extractStyles() {
	blocks := styleRe.FindAllStringSubmatch(p.html, -1)
	if len(blocks) == 0 {
		return
	}
	p.html = styleRe.ReplaceAllString(p.html, "")

	for _, b := range blocks {
		p.parseCSS(cssCommentR.ReplaceAllString(b[1], ""))
	}
}

func (p *pipeline) parseCSS(css string) {
	for i := 0; i < len(css); {
		open := strings.IndexByte(css[i:], '{')
		if open < 0 {
			break
		}
		open += i
		prelude := strings.TrimSpace(css[i:open])
		end := matchBrace(css, open)
		if end < 0 {
			p.warn(TypeCSS, SeverityWarning, "unterminated CSS block dropped")
			break
		}
		body := css[open+1 : end]
		i = end + 1

		if strings.HasPrefix(prelude, "@") {
			p.atRule(prelude, body)
			continue
		}
		if prelude == "" {
			continue
		}
		var sels []string
		for _, s := range strings.Split(prelude, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sels = append(sels, s)
			}
		}
		p.rules = append(p.rules, cssRule{selectors: sels, decls: style.ParseInline(body)})
	}
}

func (p *pipeline) atRule(prelude, body string) {
	name := strings.ToLower(strings.Fields(prelude)[0])
	switch name {
	case "@media", "@font-face":
		p.headCSS = append(p.headCSS, prelude+" {"+strings.TrimSpace(body)+"}")
	default:
		p.warn(TypeCSS, SeverityInfo, fmt.Sprintf("%s rule dropped", name))
	}
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

type match struct {
	spec  int
	order int
	decls style.Styles
}

// keepRules moves extracted rules to the document head. Used
// when inlining is disabled.
func (p *pipeline) keepRules() {
	for _, r := range p.rules {
		p.headRule = append(p.headRule, r)
	}
}

// inlineStyles merges extracted rules into the style attribute of each
// matching element. Declarations already inline win over rule ones; among
// rules, higher specificity and then later position win.
func (p *pipeline) inlineStyles() {
	type compiled struct {
		sel   selector
		rule  int
		order int
	}
	var sels []compiled
	skipped := make(map[string]struct{})
	for ri, r := range p.rules {
		for _, s := range r.selectors {
			parsed, ok := parseSelector(s)
			if !ok {
				// kept in the head for clients that support it
				p.headRule = append(p.headRule, cssRule{selectors: []string{s}, decls: r.decls})
				if _, seen := skipped[s]; !seen {
					skipped[s] = struct{}{}
					p.warn(TypeCSS, SeverityInfo, fmt.Sprintf("selector %q is not inlined; only tag and class selectors are supported", s))
				}
				continue
			}
			sels = append(sels, compiled{sel: parsed, rule: ri, order: len(sels)})
		}
	}
	if len(sels) == 0 {
		return
	}

	applied := make(map[int]bool)
	p.html = mapTags(p.html, func(e *element) bool {
		var ms []match
		for _, c := range sels {
			if c.sel.matches(e) {
				ms = append(ms, match{spec: c.sel.specificity(), order: c.order, decls: p.rules[c.rule].decls})
				applied[c.rule] = true
			}
		}
		if len(ms) == 0 {
			return true
		}
		slices.SortStableFunc(ms, func(a, b match) int {
			return cmp.Or(cmp.Compare(a.spec, b.spec), cmp.Compare(a.order, b.order))
		})
		layers := make([]style.Styles, 0, len(ms)+1)
		for _, m := range ms {
			layers = append(layers, m.decls)
		}
		layers = append(layers, e.styles())
		e.setStyles(style.Merge(layers...))
		return true
	})
	p.stats.InlinedRules = len(applied)
}
