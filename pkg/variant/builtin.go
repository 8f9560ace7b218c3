package variant

import (
	"time"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

// BuiltIns returns the stock button and heading variants.
func BuiltIns() []ComponentVariant {
	epoch := time.Unix(0, 0).UTC()
	mk := func(id, name, componentType, category string, isDefault bool, s style.Styles) ComponentVariant {
		return ComponentVariant{
			ID:            id,
			Name:          name,
			ComponentType: componentType,
			Category:      category,
			Styles:        s,
			IsDefault:     isDefault,
			IsBuiltIn:     true,
			CreatedAt:     epoch,
			UpdatedAt:     epoch,
		}
	}
	return []ComponentVariant{
		mk("button-sm", "Small", "button", "size", false, style.New("padding", "8px 16px", "font-size", "13px")),
		mk("button-md", "Medium", "button", "size", true, style.New("padding", "12px 24px", "font-size", "16px")),
		mk("button-lg", "Large", "button", "size", false, style.New("padding", "16px 32px", "font-size", "18px")),
		mk("button-primary", "Primary", "button", "intent", true, style.New("background-color", "{colors.primary}", "color", "#ffffff")),
		mk("button-secondary", "Secondary", "button", "intent", false, style.New("background-color", "{colors.secondary}", "color", "#ffffff")),
		mk("button-danger", "Danger", "button", "intent", false, style.New("background-color", "{colors.danger}", "color", "#ffffff")),
		mk("button-outline", "Outline", "button", "shape", false, style.New(
			"background-color", "transparent",
			"color", "{colors.primary}",
			"border", "2px solid {colors.primary}",
		)),
		mk("heading-small", "Small heading", "heading", "size", false, style.New("font-size", "18px")),
		mk("heading-large", "Large heading", "heading", "size", false, style.New("font-size", "32px")),
	}
}
