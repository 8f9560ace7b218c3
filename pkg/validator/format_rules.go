package validator

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

var identifierRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(?:[-_][a-z0-9]+)*$`)

// ValidEmail accepts a bare address with a dotted domain.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != strings.TrimSpace(value) {
				return false
			}
			_, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || !strings.Contains(domain, ".") {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return true
		},
		Error: newError(field, "must be a valid email address", "validation.email", nil),
	}
}

// ValidURL accepts absolute http(s) and mailto URLs, plus root-relative paths.
func ValidURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "//") {
				return true
			}
			u, err := url.Parse(value)
			if err != nil {
				return false
			}
			switch strings.ToLower(u.Scheme) {
			case "http", "https":
				return u.Host != ""
			case "mailto":
				return u.Opaque != ""
			}
			return false
		},
		Error: newError(field, "must be a valid URL", "validation.url", nil),
	}
}

// ValidIdentifier accepts lowercase names such as component types and slot
// names: "button", "hero-title", "footer_text".
func ValidIdentifier(field, value string) Rule {
	return Rule{
		Check: func() bool { return identifierRegex.MatchString(value) },
		Error: newError(field, "must be a lowercase identifier", "validation.identifier", nil),
	}
}
