package registry

import (
	"github.com/a-h/templ"

	"github.com/dmitrymomot/emailkit/pkg/components"
	"github.com/dmitrymomot/emailkit/pkg/style"
)

// Categories of the built-in library.
const (
	CategoryContent = "content"
	CategoryLayout  = "layout"
)

// Default returns a registry holding the built-in component library.
func Default() *Registry {
	r := New()
	for _, d := range builtins() {
		r.MustRegister(d)
	}
	return r
}

func builtins() []Definition {
	return []Definition{
		{
			Type:         "button",
			Category:     CategoryContent,
			Description:  "Call-to-action link rendered as a button.",
			DefaultProps: Props{"label": "Click me", "url": "#", "align": "left"},
			DefaultStyles: style.New(
				"display", "inline-block",
				"padding", "12px 24px",
				"text-decoration", "none",
				"font-weight", "bold",
			),
			Render: func(p Props, s style.Styles, _ []templ.Component) templ.Component {
				return components.Button(components.ButtonProps{
					Label:  p.String("label", ""),
					URL:    p.String("url", "#"),
					Align:  p.String("align", "left"),
					Styles: s,
				})
			},
		},
		{
			Type:         "heading",
			Category:     CategoryContent,
			DefaultProps: Props{"text": "Heading", "level": 2},
			DefaultStyles: style.New(
				"margin", "0 0 16px",
				"line-height", "1.3",
			),
			Render: func(p Props, s style.Styles, _ []templ.Component) templ.Component {
				return components.Heading(components.HeadingProps{
					Text:   p.String("text", ""),
					Level:  p.Int("level", 2),
					Styles: s,
				})
			},
		},
		{
			Type:          "text",
			Category:      CategoryContent,
			Description:   "Paragraph of text. The html prop is inserted unescaped.",
			DefaultProps:  Props{"text": ""},
			DefaultStyles: style.New("margin", "0 0 16px", "line-height", "1.5"),
			Render: func(p Props, s style.Styles, _ []templ.Component) templ.Component {
				return components.Text(components.TextProps{
					Text:   p.String("text", ""),
					HTML:   p.String("html", ""),
					Styles: s,
				})
			},
		},
		{
			Type:         "image",
			Category:     CategoryContent,
			DefaultProps: Props{"src": "", "alt": "", "width": 600},
			Render: func(p Props, s style.Styles, _ []templ.Component) templ.Component {
				return components.Image(components.ImageProps{
					Src:    p.String("src", ""),
					Alt:    p.String("alt", ""),
					Width:  p.Int("width", 0),
					Href:   p.String("href", ""),
					Styles: s,
				})
			},
		},
		{
			Type:     "divider",
			Category: CategoryContent,
			DefaultStyles: style.New(
				"margin", "24px 0",
			),
			Render: func(_ Props, s style.Styles, _ []templ.Component) templ.Component {
				return components.Divider(s)
			},
		},
		{
			Type:         "spacer",
			Category:     CategoryContent,
			DefaultProps: Props{"height": 24},
			Render: func(p Props, _ style.Styles, _ []templ.Component) templ.Component {
				return components.Spacer(p.Int("height", 24))
			},
		},
		{
			Type:          "section",
			Category:      CategoryLayout,
			Container:     true,
			DefaultStyles: style.New("padding", "24px"),
			Render: func(_ Props, s style.Styles, children []templ.Component) templ.Component {
				return components.Section(s, children...)
			},
		},
		{
			Type:      "columns",
			Category:  CategoryLayout,
			Container: true,
			Render: func(_ Props, s style.Styles, children []templ.Component) templ.Component {
				return components.Columns(s, children...)
			},
		},
		{
			Type:         "column",
			Category:     CategoryLayout,
			Container:    true,
			DefaultProps: Props{"width": 0},
			Render: func(p Props, s style.Styles, children []templ.Component) templ.Component {
				return components.Column(p.Int("width", 0), s, children...)
			},
		},
	}
}
