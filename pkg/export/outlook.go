package export

import (
	"strconv"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

var outlookTableStyles = style.New(
	"border-collapse", "collapse",
	"mso-table-lspace", "0pt",
	"mso-table-rspace", "0pt",
)

// outlookFixes adds table and image attributes Outlook relies on and wraps
// the body in a fixed-width table only Outlook sees.
func (p *pipeline) outlookFixes() {
	p.html = mapTags(p.html, func(e *element) bool {
		switch {
		case e.is("table"):
			// existing declarations win
			e.setStyles(style.Merge(outlookTableStyles, e.styles()))
		case e.is("img"):
			if !e.has("border") {
				e.set("border", "0")
			}
		}
		return true
	})

	w := strconv.Itoa(p.opts.width())
	p.html = `<!--[if mso]><table role="presentation" align="center" width="` + w +
		`" cellpadding="0" cellspacing="0" border="0"><tr><td><![endif]-->` +
		p.html +
		`<!--[if mso]></td></tr></table><![endif]-->`
}
