package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

type ButtonProps struct {
	Label  string
	URL    string
	Align  string
	Styles style.Styles
}

// Button renders a link styled as a button inside an aligned paragraph.
func Button(p ButtonProps) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<p`)
		w.attr("style", "text-align: "+orDefault(p.Align, "left")+"; margin: 0;")
		w.raw(`><a`)
		w.url("href", orDefault(p.URL, "#"))
		w.attr("class", "button")
		w.style(p.Styles)
		w.raw(">")
		w.text(p.Label)
		w.raw("</a></p>")
		return w.err
	})
}

type HeadingProps struct {
	Text   string
	Level  int
	Styles style.Styles
}

// Heading renders h1 through h6. Levels outside that range become h2.
func Heading(p HeadingProps) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		level := p.Level
		if level < 1 || level > 6 {
			level = 2
		}
		tag := "h" + strconv.Itoa(level)
		w := &writer{w: out}
		w.raw("<" + tag)
		w.attr("class", "heading")
		w.style(p.Styles)
		w.raw(">")
		w.text(p.Text)
		w.raw("</" + tag + ">")
		return w.err
	})
}

type TextProps struct {
	Text string
	// HTML is inserted unescaped when set and takes precedence over Text.
	HTML   string
	Styles style.Styles
}

func Text(p TextProps) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<p")
		w.attr("class", "text")
		w.style(p.Styles)
		w.raw(">")
		if p.HTML != "" {
			w.raw(p.HTML)
		} else {
			w.text(p.Text)
		}
		w.raw("</p>")
		return w.err
	})
}

type ImageProps struct {
	Src    string
	Alt    string
	Width  int
	Href   string
	Styles style.Styles
}

// Image renders an img, optionally wrapped in a link. Width is in pixels.
func Image(p ImageProps) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		if p.Href != "" {
			w.raw("<a")
			w.url("href", p.Href)
			w.raw(">")
		}
		w.raw("<img")
		w.url("src", p.Src)
		// alt is always written so the audit can tell "empty" from "missing"
		w.raw(` alt="` + templ.EscapeString(p.Alt) + `"`)
		if p.Width > 0 {
			w.attr("width", strconv.Itoa(p.Width))
		}
		w.style(style.Merge(style.New("display", "block", "border", "0", "max-width", "100%"), p.Styles))
		w.raw(">")
		if p.Href != "" {
			w.raw("</a>")
		}
		return w.err
	})
}

// Divider renders a horizontal rule.
func Divider(styles style.Styles) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<hr")
		w.style(style.Merge(style.New("border", "0", "border-top", "1px solid #e5e7eb"), styles))
		w.raw(">")
		return w.err
	})
}

// Spacer renders vertical whitespace of height pixels.
func Spacer(height int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		if height <= 0 {
			height = 16
		}
		h := strconv.Itoa(height) + "px"
		w := &writer{w: out}
		w.raw("<div")
		w.style(style.New("height", h, "line-height", h, "font-size", "1px"))
		w.raw(">&nbsp;</div>")
		return w.err
	})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
