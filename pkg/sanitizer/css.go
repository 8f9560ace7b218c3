package sanitizer

import (
	"regexp"
	"strings"
)

var (
	cssCommentRegex    = regexp.MustCompile(`/\*.*?\*/`)
	cssExpressionRegex = regexp.MustCompile(`(?i)expression\s*\(`)
	cssSchemeRegex     = regexp.MustCompile(`(?i)(java|vb)script\s*:`)
	cssBindingRegex    = regexp.MustCompile(`(?i)-moz-binding|behavior\s*:`)
)

// CSSValue makes a declaration value safe to place inside a style attribute.
// It removes comments, script-bearing constructs, angle brackets and
// declaration separators, then collapses whitespace.
func CSSValue(v string) string {
	v = cssCommentRegex.ReplaceAllString(v, "")
	v = cssExpressionRegex.ReplaceAllString(v, "")
	v = cssSchemeRegex.ReplaceAllString(v, "")
	v = cssBindingRegex.ReplaceAllString(v, "")
	v = strings.NewReplacer("<", "", ">", "", ";", "", "\\", "", `"`, "'").Replace(v)
	return SingleLine(RemoveControlChars(v))
}

// Styles applies CSSValue to every value and drops entries left empty.
// Keys are trimmed; normalisation of property names is left to the caller.
func Styles(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		k = strings.TrimSpace(k)
		v = CSSValue(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
