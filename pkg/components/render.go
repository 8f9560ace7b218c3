package components

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

// Render renders c into a string.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Group renders children one after another.
func Group(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return renderAll(ctx, w, children)
	})
}

// Raw writes trusted HTML as is.
func Raw(html string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}

func renderAll(ctx context.Context, w io.Writer, children []templ.Component) error {
	for _, c := range children {
		if c == nil {
			continue
		}
		if err := c.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// writer accumulates the first write error so markup reads linearly.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` and skips empty values.
func (w *writer) attr(name, value string) {
	if value == "" {
		return
	}
	w.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (w *writer) url(name, value string) {
	if value == "" {
		return
	}
	w.attr(name, string(templ.URL(value)))
}

func (w *writer) style(s style.Styles) {
	if len(s) == 0 {
		return
	}
	w.attr("style", s.String())
}

func (w *writer) children(ctx context.Context, children []templ.Component) {
	if w.err == nil {
		w.err = renderAll(ctx, w.w, children)
	}
}
