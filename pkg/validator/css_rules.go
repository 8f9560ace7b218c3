package validator

import (
	"regexp"
	"slices"
	"strings"
)

var (
	hexColorRegex  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColorRegex = regexp.MustCompile(`^(?i:rgba?|hsla?)\(\s*[0-9.%\s,/+-]+\)$`)
	lengthRegex    = regexp.MustCompile(`^-?(?:\d+|\d*\.\d+)(?:px|em|rem|%|pt|vh|vw|ch|ex)?$`)
	propertyRegex  = regexp.MustCompile(`^(?:-(?:webkit|moz|ms|o)-)?[a-z][a-z0-9]*(?:-[a-z0-9]+)*$|^--[A-Za-z0-9_-]+$`)
	tokenPathRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)
	tokenRefRegex  = regexp.MustCompile(`^\{[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\}$`)
)

var namedColors = map[string]struct{}{
	"transparent": {}, "currentcolor": {}, "inherit": {},
	"black": {}, "white": {}, "red": {}, "green": {}, "blue": {}, "yellow": {},
	"orange": {}, "purple": {}, "gray": {}, "grey": {}, "silver": {}, "maroon": {},
	"navy": {}, "teal": {}, "olive": {}, "lime": {}, "aqua": {}, "fuchsia": {},
}

// unsafe substrings for any CSS value placed inside a style attribute
var unsafeCSS = []string{"expression(", "javascript:", "vbscript:", "behavior:", "-moz-binding", "<", ">", "\\", "/*"}

// IsCSSColor accepts hex, rgb(a)/hsl(a) functions, common named colors and
// {group.name} token references.
func IsCSSColor(value string) bool {
	v := strings.TrimSpace(value)
	if hexColorRegex.MatchString(v) || funcColorRegex.MatchString(v) || tokenRefRegex.MatchString(v) {
		return true
	}
	_, ok := namedColors[strings.ToLower(v)]
	return ok
}

// IsCSSLength accepts numbers with an optional unit, "auto", and token references.
func IsCSSLength(value string) bool {
	v := strings.TrimSpace(value)
	return v == "auto" || lengthRegex.MatchString(v) || tokenRefRegex.MatchString(v)
}

// IsSafeCSSValue rejects values that can break out of a style attribute
// or execute script in legacy clients.
func IsSafeCSSValue(value string) bool {
	lower := strings.ToLower(value)
	for _, s := range unsafeCSS {
		if strings.Contains(lower, s) {
			return false
		}
	}
	// braces are allowed only as part of token references
	stripped := tokenRefInValue.ReplaceAllString(value, "")
	return !strings.ContainsAny(stripped, "{};")
}

var tokenRefInValue = regexp.MustCompile(`\{[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\}`)

func ValidCSSColor(field, value string) Rule {
	return Rule{
		Check: func() bool { return IsCSSColor(value) },
		Error: newError(field, "must be a CSS color", "validation.css_color", nil),
	}
}

func ValidCSSLength(field, value string) Rule {
	return Rule{
		Check: func() bool { return IsCSSLength(value) },
		Error: newError(field, "must be a CSS length", "validation.css_length", nil),
	}
}

// ValidCSSProperty expects a normalised kebab-case property name.
func ValidCSSProperty(field, value string) Rule {
	return Rule{
		Check: func() bool { return propertyRegex.MatchString(value) },
		Error: newError(field, "must be a CSS property name", "validation.css_property", nil),
	}
}

func ValidCSSValue(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" && IsSafeCSSValue(value) },
		Error: newError(field, "contains an unsafe or empty CSS value", "validation.css_value", nil),
	}
}

// ValidTokenPath accepts "group.name".
func ValidTokenPath(field, value string) Rule {
	return Rule{
		Check: func() bool { return tokenPathRegex.MatchString(value) },
		Error: newError(field, "must be a token path like colors.primary", "validation.token_path", nil),
	}
}

// StyleRules validates every property and value of a style map. Field names
// are "<field>.<property>". Properties are visited in sorted order.
func StyleRules(field string, styles map[string]string) []Rule {
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rules := make([]Rule, 0, len(keys)*2)
	for _, k := range keys {
		name := field + "." + k
		rules = append(rules, ValidCSSProperty(name, k), ValidCSSValue(name, styles[k]))
	}
	return rules
}
