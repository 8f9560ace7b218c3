package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	scriptRe      = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	strayScriptRe = regexp.MustCompile(`(?i)<script\b[^>]*>|</script\s*>`)
	linkRe        = regexp.MustCompile(`(?i)<link\b(?:"[^"]*"|'[^']*'|[^'">])*>`)
	eventAttrRe   = regexp.MustCompile(`(?i)\son[a-z]+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
	titleRe       = regexp.MustCompile(`(?is)<title\b[^>]*>(.*?)</title\s*>`)
	headRe        = regexp.MustCompile(`(?is)<head\b[^>]*>(.*?)</head\s*>`)
	bodyRe        = regexp.MustCompile(`(?is)<body\b[^>]*>(.*?)(?:</body\s*>|$)`)
	htmlTagRe     = regexp.MustCompile(`(?i)<!doctype\b[^>]*>|<html\b[^>]*>|</html\s*>`)
)

// removeUnsafe drops scripts, inline event handlers and stylesheet links.
func (p *pipeline) removeUnsafe() {
	n := len(scriptRe.FindAllStringIndex(p.html, -1))
	p.html = scriptRe.ReplaceAllString(p.html, "")
	n += len(strayScriptRe.FindAllStringIndex(p.html, -1))
	p.html = strayScriptRe.ReplaceAllString(p.html, "")
	if n > 0 {
		p.warn(TypeHTML, SeverityError, fmt.Sprintf("removed %d script element(s); email clients do not run scripts", n))
	}

	handlers := 0
	p.html = mapTags(p.html, func(e *element) bool {
		if cleaned := eventAttrRe.ReplaceAllString(e.attrs, ""); cleaned != e.attrs {
			handlers++
			e.attrs = cleaned
		}
		return true
	})
	if handlers > 0 {
		p.warn(TypeHTML, SeverityError, fmt.Sprintf("removed event handler attributes from %d element(s)", handlers))
	}

	links := 0
	p.html = linkRe.ReplaceAllStringFunc(p.html, func(tag string) string {
		e := &element{attrs: tag[len("<link") : len(tag)-1]}
		if rel, _ := e.attr("rel"); strings.Contains(strings.ToLower(rel), "stylesheet") {
			links++
			return ""
		}
		return tag
	})
	if links > 0 {
		p.warn(TypeCSS, SeverityWarning, fmt.Sprintf("removed %d external stylesheet link(s); only embedded styles are exported", links))
	}
}

// unwrapDocument reduces a full HTML document to its body, keeping the
// head's <style> blocks and reusing its title. A document without a body
// keeps whatever sits outside its head.
func (p *pipeline) unwrapDocument() {
	var head string
	if m := headRe.FindStringSubmatch(p.html); m != nil {
		head = m[1]
	}
	var content string
	if body := bodyRe.FindStringSubmatch(p.html); body != nil {
		content = body[1]
	} else if htmlTagRe.MatchString(p.html) {
		content = htmlTagRe.ReplaceAllString(headRe.ReplaceAllString(p.html, ""), "")
	} else {
		return
	}
	if p.title == "" {
		if m := titleRe.FindStringSubmatch(head); m != nil {
			p.title = html.UnescapeString(strings.TrimSpace(m[1]))
		}
	}
	p.html = strings.Join(styleRe.FindAllString(head, -1), "") + content
}
