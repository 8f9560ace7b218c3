package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

type DocumentProps struct {
	Title     string
	Preheader string
	// CSS goes into a <style> block in the head.
	CSS   string
	Width int
	// Background of the page around the container.
	Background string
}

const defaultWidth = 600

// Document renders a full preview page around body.
func Document(p DocumentProps, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		width := p.Width
		if width <= 0 {
			width = defaultWidth
		}
		bg := orDefault(p.Background, "#f3f4f6")

		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw("<title>")
		w.text(p.Title)
		w.raw("</title>")
		if p.CSS != "" {
			w.raw("<style>")
			w.raw(p.CSS)
			w.raw("</style>")
		}
		w.raw("</head><body")
		w.attr("style", "margin: 0; padding: 0; background-color: "+bg+";")
		w.raw(">")
		if p.Preheader != "" {
			w.raw(`<div style="display: none; max-height: 0; overflow: hidden;">`)
			w.text(p.Preheader)
			w.raw("</div>")
		}
		w.raw(`<div class="container"`)
		w.attr("style", "max-width: "+strconv.Itoa(width)+"px; margin: 0 auto; background-color: #ffffff;")
		w.raw(">")
		w.children(ctx, body)
		w.raw("</div></body></html>")
		return w.err
	})
}
