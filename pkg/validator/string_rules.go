package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Required fails for empty or whitespace-only strings.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: newError(field, "field is required", "validation.required", nil),
	}
}

// MinLen counts runes, not bytes.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= min },
		Error: newError(field, fmt.Sprintf("must be at least %d characters long", min),
			"validation.min_length", map[string]any{"min": min}),
	}
}

// MaxLen counts runes, not bytes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: newError(field, fmt.Sprintf("must be at most %d characters long", max),
			"validation.max_length", map[string]any{"max": max}),
	}
}

// OneOf fails when value is not in options.
func OneOf[T comparable](field string, value T, options []T) Rule {
	return Rule{
		Check: func() bool {
			for _, o := range options {
				if o == value {
					return true
				}
			}
			return false
		},
		Error: newError(field, fmt.Sprintf("must be one of %v", options),
			"validation.one_of", map[string]any{"options": options}),
	}
}

// MaxLenSlice fails when value has more than max elements.
func MaxLenSlice[T any](field string, value []T, max int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= max },
		Error: newError(field, fmt.Sprintf("must contain at most %d items", max),
			"validation.max_items", map[string]any{"max": max}),
	}
}

// Range fails when value is outside [min, max].
func Range[T Numeric](field string, value, min, max T) Rule {
	return Rule{
		Check: func() bool { return value >= min && value <= max },
		Error: newError(field, fmt.Sprintf("must be between %v and %v", min, max),
			"validation.range", map[string]any{"min": min, "max": max}),
	}
}
