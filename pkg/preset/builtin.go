package preset

import (
	"time"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

// BuiltIns returns the stock presets. The first preset of each component
// type is its default.
func BuiltIns() []ComponentPreset {
	epoch := time.Unix(0, 0).UTC()
	out := []ComponentPreset{
		{
			ID: "button-cta", Name: "Call to action", ComponentType: "button",
			Description: "Prominent primary button",
			Tags:        []string{"cta", "primary"},
			Styles:      style.New("font-weight", "700", "padding", "14px 28px"),
			Props:       map[string]any{"label": "Get started"},
			IsDefault:   true,
		},
		{
			ID: "button-link", Name: "Text link button", ComponentType: "button",
			Description: "Button rendered as an underlined link",
			Tags:        []string{"link", "minimal"},
			Styles: style.New(
				"background-color", "transparent",
				"color", "{colors.primary}",
				"padding", "0",
				"text-decoration", "underline",
			),
		},
		{
			ID: "heading-hero", Name: "Hero heading", ComponentType: "heading",
			Description: "Large centered title",
			Tags:        []string{"hero", "title"},
			Styles:      style.New("font-size", "32px", "text-align", "center"),
			Props:       map[string]any{"level": 1},
			IsDefault:   true,
		},
		{
			ID: "text-body", Name: "Body copy", ComponentType: "text",
			Description: "Comfortable paragraph text",
			Tags:        []string{"body", "paragraph"},
			Styles:      style.New("line-height", "1.6"),
			IsDefault:   true,
		},
		{
			ID: "text-caption", Name: "Caption", ComponentType: "text",
			Description: "Small muted note",
			Tags:        []string{"caption", "muted"},
			Styles:      style.New("font-size", "{sizes.small}", "color", "{colors.muted}"),
		},
	}
	for i := range out {
		out[i].IsBuiltIn = true
		out[i].CreatedAt = epoch
		out[i].UpdatedAt = epoch
	}
	return out
}
