package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

// Layout names understood by the export pass.
const (
	LayoutSection = "section"
	LayoutColumns = "columns"
	LayoutColumn  = "column"
)

func layout(name string, styles style.Styles, extra func(w *writer), children []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<div")
		w.attr("data-layout", name)
		if extra != nil {
			extra(w)
		}
		w.style(styles)
		w.raw(">")
		w.children(ctx, children)
		w.raw("</div>")
		return w.err
	})
}

// Section groups content into one full-width block.
func Section(styles style.Styles, children ...templ.Component) templ.Component {
	return layout(LayoutSection, styles, nil, children)
}

// Columns lays out Column children side by side.
func Columns(styles style.Styles, children ...templ.Component) templ.Component {
	return layout(LayoutColumns, styles, nil, children)
}

// Column is one cell of Columns. A positive width is written as a
// percentage.
func Column(width int, styles style.Styles, children ...templ.Component) templ.Component {
	var extra func(w *writer)
	if width > 0 && width <= 100 {
		extra = func(w *writer) { w.attr("data-width", strconv.Itoa(width)+"%") }
	}
	return layout(LayoutColumn, styles, extra, children)
}
