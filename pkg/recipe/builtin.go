package recipe

import (
	"time"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

// BuiltIns returns the stock email-safe recipes.
func BuiltIns() []StyleRecipe {
	epoch := time.Unix(0, 0).UTC()
	mk := func(id, name, category, description string, tags []string, s style.Styles) StyleRecipe {
		return StyleRecipe{
			ID:          id,
			Name:        name,
			Description: description,
			Category:    category,
			Tags:        tags,
			Styles:      s,
			IsBuiltIn:   true,
			CreatedAt:   epoch,
			UpdatedAt:   epoch,
		}
	}
	return []StyleRecipe{
		mk("rounded", "Rounded", "shape", "Soft rounded corners", []string{"border", "corners"},
			style.New("border-radius", "6px")),
		mk("centered", "Centered", "layout", "Center text and inline content", []string{"alignment"},
			style.New("text-align", "center", "margin-left", "auto", "margin-right", "auto")),
		mk("muted-text", "Muted text", "typography", "Secondary copy in a muted tone", []string{"text", "color"},
			style.New("color", "{colors.muted}", "font-size", "{sizes.small}")),
		mk("bold-heading", "Bold heading", "typography", "Heavy weight with tight line height", []string{"heading", "text"},
			style.New("font-weight", "700", "line-height", "1.2", "letter-spacing", "-0.5px")),
		mk("full-width", "Full width", "layout", "Stretch to the container width", []string{"width"},
			style.New("width", "100%", "display", "block")),
	}
}
