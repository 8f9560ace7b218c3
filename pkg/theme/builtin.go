package theme

import (
	"time"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

// Default returns the built-in theme. Its values are limited to what
// renders consistently across major email clients.
func Default() Theme {
	return Theme{
		ID:          DefaultID,
		Name:        "Default",
		Description: "Neutral email-safe theme",
		Tokens: style.Tokens{
			"colors": {
				"primary":    "#2563eb",
				"secondary":  "#64748b",
				"text":       "#1f2937",
				"muted":      "#6b7280",
				"background": "#ffffff",
				"surface":    "#f3f4f6",
				"border":     "#e5e7eb",
				"success":    "#16a34a",
				"danger":     "#dc2626",
			},
			"fonts": {
				"body":    "Arial, Helvetica, sans-serif",
				"heading": "Georgia, 'Times New Roman', serif",
			},
			"sizes": {
				"text":    "16px",
				"small":   "13px",
				"heading": "24px",
			},
			"spacing": {
				"sm": "8px",
				"md": "16px",
				"lg": "24px",
			},
			"radii": {
				"button": "4px",
			},
		},
		Components: map[string]style.Styles{
			"button": style.New(
				"background-color", "{colors.primary}",
				"color", "#ffffff",
				"padding", "12px 24px",
				"border-radius", "{radii.button}",
				"font-family", "{fonts.body}",
				"text-decoration", "none",
				"display", "inline-block",
			),
			"heading": style.New(
				"color", "{colors.text}",
				"font-family", "{fonts.heading}",
				"font-size", "{sizes.heading}",
				"margin", "0 0 {spacing.md} 0",
			),
			"text": style.New(
				"color", "{colors.text}",
				"font-family", "{fonts.body}",
				"font-size", "{sizes.text}",
				"line-height", "1.5",
				"margin", "0 0 {spacing.md} 0",
			),
			"divider": style.New(
				"border-top", "1px solid {colors.border}",
				"margin", "{spacing.lg} 0",
			),
			"section": style.New(
				"background-color", "{colors.background}",
				"padding", "{spacing.lg}",
			),
		},
		IsBuiltIn: true,
		CreatedAt: time.Unix(0, 0).UTC(),
		UpdatedAt: time.Unix(0, 0).UTC(),
	}
}
