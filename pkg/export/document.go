package export

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

const doctype = `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">`

const baseCSS = `body { margin: 0; padding: 0; width: 100% !important; -webkit-text-size-adjust: 100%; -ms-text-size-adjust: 100%; }
table, td { border-collapse: collapse; mso-table-lspace: 0pt; mso-table-rspace: 0pt; }
img { border: 0; outline: none; text-decoration: none; -ms-interpolation-mode: bicubic; }
a img { border: none; }`

const msoSettings = `<!--[if mso]><xml><o:OfficeDocumentSettings><o:AllowPNG/><o:PixelsPerInch>96</o:PixelsPerInch></o:OfficeDocumentSettings></xml><![endif]-->`

// wrapDocument places the body into the email document template.
func (p *pipeline) wrapDocument() {
	w := strconv.Itoa(p.opts.width())
	title := p.opts.Title
	if title == "" {
		title = p.title
	}

	var b strings.Builder
	b.Grow(len(p.html) + 2048)
	b.WriteString(doctype + "\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:v="urn:schemas-microsoft-com:vml" xmlns:o="urn:schemas-microsoft-com:office:office">` + "\n")
	b.WriteString("<head>\n")
	b.WriteString(`<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0" />` + "\n")
	b.WriteString(`<meta http-equiv="X-UA-Compatible" content="IE=edge" />` + "\n")
	b.WriteString(`<meta name="x-apple-disable-message-reformatting" />` + "\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString(msoSettings + "\n")
	b.WriteString(`<style type="text/css">` + "\n" + baseCSS + "\n")
	for _, r := range p.headRule {
		if css := style.Rule(strings.Join(r.selectors, ", "), r.decls); css != "" {
			b.WriteString(css + "\n")
		}
	}
	for _, css := range p.headCSS {
		if css != "" {
			b.WriteString(css + "\n")
		}
	}
	b.WriteString("</style>\n</head>\n")
	b.WriteString(`<body style="margin: 0; padding: 0; width: 100%;">` + "\n")
	if p.opts.Preheader != "" {
		b.WriteString(`<div style="display: none; max-height: 0; max-width: 0; opacity: 0; overflow: hidden; mso-hide: all; font-size: 1px; line-height: 1px;">`)
		b.WriteString(html.EscapeString(p.opts.Preheader))
		b.WriteString("</div>\n")
	}
	b.WriteString(`<table role="presentation" width="100%" cellpadding="0" cellspacing="0" border="0" style="border-collapse: collapse;"><tr><td align="center">` + "\n")
	b.WriteString(`<table role="presentation" class="email-container" width="` + w + `" cellpadding="0" cellspacing="0" border="0" style="border-collapse: collapse; max-width: ` + w + `px; width: 100%;"><tr><td>` + "\n")
	b.WriteString(p.html)
	b.WriteString("\n</td></tr></table>\n</td></tr></table>\n</body>\n</html>")
	p.html = b.String()
}

var (
	commentRe     = regexp.MustCompile(`(?s)<!--(.*?)-->`)
	betweenTagsRe = regexp.MustCompile(`>\s+<`)
	blankRunRe    = regexp.MustCompile(`[ \t]*\n\s*`)
	tagNameRe     = regexp.MustCompile(`^</?([a-zA-Z][a-zA-Z0-9]*)`)
)

// minify drops ordinary comments and whitespace between tags. Conditional
// comments are kept.
func (p *pipeline) minify() {
	p.html = commentRe.ReplaceAllStringFunc(p.html, func(c string) string {
		inner := c[len("<!--") : len(c)-len("-->")]
		if strings.HasPrefix(inner, "[if") || strings.HasPrefix(inner, "<![endif]") {
			return c
		}
		return ""
	})
	p.html = blankRunRe.ReplaceAllString(p.html, "\n")
	p.html = collapseBetweenTags(p.html)
	p.html = strings.TrimSpace(p.html)
}

// collapseBetweenTags reduces whitespace between two tags to a single space,
// which is content between inline elements. Next to a block-level tag the
// whitespace is dropped.
func collapseBetweenTags(s string) string {
	locs := betweenTagsRe.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last : loc[0]+1])
		prev := s[max(strings.LastIndexByte(s[:loc[0]], '<'), 0) : loc[0]+1]
		if !blockBoundary(prev) && !blockBoundary(s[loc[1]-1:]) {
			b.WriteByte(' ')
		}
		last = loc[1] - 1
	}
	b.WriteString(s[last:])
	return b.String()
}

// blockBoundary reports whether whitespace next to tag can be dropped.
// Markup that is not a plain element, such as a conditional comment, counts
// as a boundary.
func blockBoundary(tag string) bool {
	m := tagNameRe.FindStringSubmatch(tag)
	if m == nil {
		return true
	}
	a := atom.Lookup([]byte(strings.ToLower(m[1])))
	switch a {
	case atom.Html, atom.Head, atom.Body, atom.Meta, atom.Title, atom.Style, atom.Link,
		atom.Tbody, atom.Thead, atom.Tfoot, atom.Td, atom.Th, atom.Li, atom.Br, atom.Hr, atom.Center:
		return true
	}
	return isBlock(a)
}
