package blueprint

import (
	"html"
	"strings"

	"github.com/dmitrymomot/emailkit/pkg/validator"
)

// Render substitutes every placeholder in b.Markup. Text values are
// HTML-escaped, html values inserted as is, url and image values checked
// and attribute-escaped. Empty values fall back to the slot default.
// Missing required values and unsafe URLs are reported together as
// validator.ValidationErrors.
func Render(b TemplateBlueprint, values map[string]string) (string, error) {
	var errs validator.ValidationErrors
	reported := make(map[string]bool)

	out := placeholderRegex.ReplaceAllStringFunc(b.Markup, func(m string) string {
		name := placeholderRegex.FindStringSubmatch(m)[1]
		slot, ok := b.Slot(name)
		if !ok {
			slot = Slot{Name: name, Type: SlotText}
		}

		v := values[name]
		if strings.TrimSpace(v) == "" {
			v = slot.Default
		}
		if v == "" {
			if slot.Required && !reported[name] {
				reported[name] = true
				errs.Add(validator.ValidationError{
					Field:          "slots." + name,
					Message:        "is required",
					TranslationKey: "validation.required",
				})
			}
			return ""
		}

		switch slot.Type {
		case SlotHTML:
			return v
		case SlotURL, SlotImage:
			v = strings.TrimSpace(v)
			if err := validator.Apply(validator.ValidURL("slots."+name, v)); err != nil {
				if !reported[name] {
					reported[name] = true
					errs.Add(validator.ValidationError{
						Field:          "slots." + name,
						Message:        "must be a safe URL",
						TranslationKey: "validation.url",
					})
				}
				return ""
			}
			return html.EscapeString(v)
		default:
			return html.EscapeString(v)
		}
	})

	if err := errs.Err(); err != nil {
		return "", err
	}
	return out, nil
}
