package style

import "strings"

// ParseInline parses a style attribute value into Styles. Semicolons inside
// parentheses or quotes (data URIs, font lists) do not split declarations.
// Malformed declarations without a colon are skipped.
func ParseInline(css string) Styles {
	s := make(Styles)
	for _, decl := range SplitDeclarations(css) {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		s.Set(prop, value)
	}
	return s
}

// SplitDeclarations splits a declaration list on top-level semicolons and
// drops empty entries.
func SplitDeclarations(css string) []string {
	var (
		out   []string
		depth int
		quote rune
		start int
	)
	flush := func(end int) {
		if d := strings.TrimSpace(css[start:end]); d != "" {
			out = append(out, d)
		}
	}
	for i, r := range css {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(css))
	return out
}
