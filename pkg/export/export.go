package export

import (
	"context"
	"fmt"
	"strings"
)

type pipeline struct {
	html     string
	opts     Options
	title    string
	rules    []cssRule
	headRule []cssRule
	headCSS  []string
	warnings []Warning
	stats    Stats
}

func (p *pipeline) warn(typ, severity, msg string) {
	p.warnings = append(p.warnings, Warning{Type: typ, Message: msg, Severity: severity})
}

// Export converts markup into an email document. It never returns nil.
func Export(ctx context.Context, src string, opts Options) (res *Result) {
	if strings.TrimSpace(src) == "" {
		return failed("empty input")
	}
	defer func() {
		if r := recover(); r != nil {
			res = failed(fmt.Sprintf("export failed: %v", r))
		}
	}()
	if err := ctx.Err(); err != nil {
		return failed(err.Error())
	}

	p := &pipeline{html: src, opts: opts}
	p.removeUnsafe()
	p.unwrapDocument()
	p.extractStyles()
	if opts.InlineCSS {
		p.inlineStyles()
	} else {
		p.keepRules()
	}
	if opts.RemoveIncompatibleCSS {
		p.stripIncompatible()
	}
	if opts.ConvertLayout {
		p.convertLayout()
	}
	if opts.OutlookFixes {
		p.outlookFixes()
	}
	p.wrapDocument()
	if opts.Minify {
		p.minify()
	}
	p.audit()
	p.stats.OutputSize = len(p.html)

	res = &Result{HTML: p.html, Warnings: p.warnings, Stats: p.stats}
	if opts.PlainText {
		text, err := PlainText(p.html)
		if err != nil {
			res.Warnings = append(res.Warnings, Warning{Type: TypeGeneral, Severity: SeverityWarning, Message: "plain text: " + err.Error()})
		}
		res.Text = text
	}
	if res.Warnings == nil {
		res.Warnings = []Warning{}
	}
	return res
}

func failed(msg string) *Result {
	return &Result{
		Warnings: []Warning{{Type: TypeGeneral, Message: msg, Severity: SeverityError}},
	}
}
