package style

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"unicode"
)

// Styles maps a kebab-case CSS property to its value.
type Styles map[string]string

// New builds Styles from property/value pairs. A trailing odd element is ignored.
func New(pairs ...string) Styles {
	s := make(Styles, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}

// Set normalises prop and stores value. An empty value deletes the property.
func (s Styles) Set(prop, value string) {
	prop = NormalizeProperty(prop)
	if prop == "" {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		delete(s, prop)
		return
	}
	s[prop] = value
}

// Get returns the value for prop, accepting camelCase or kebab-case names.
func (s Styles) Get(prop string) (string, bool) {
	v, ok := s[NormalizeProperty(prop)]
	return v, ok
}

// Clone returns a copy of s. Cloning nil yields an empty, non-nil map.
func (s Styles) Clone() Styles {
	out := make(Styles, len(s))
	maps.Copy(out, s)
	return out
}

// Keys returns the property names in sorted order.
func (s Styles) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// String renders the declarations as an inline style attribute value,
// sorted by property: "color: #fff; padding: 4px".
func (s Styles) String() string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range s.Keys() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(s[k])
	}
	return b.String()
}

// UnmarshalJSON decodes a JSON object and normalises property names.
func (s *Styles) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Styles, len(raw))
	for k, v := range raw {
		out.Set(k, v)
	}
	*s = out
	return nil
}

// Normalize returns a copy of s with every key normalised and empty values dropped.
func Normalize(s Styles) Styles {
	out := make(Styles, len(s))
	for k, v := range s {
		out.Set(k, v)
	}
	return out
}

// Merge layers styles left to right into a new map. Later layers win;
// an empty value in a later layer removes the property.
func Merge(layers ...Styles) Styles {
	out := make(Styles)
	for _, layer := range layers {
		for k, v := range layer {
			out.Set(k, v)
		}
	}
	return out
}

// MergeDeep merges maps of Styles one level deep: keys present in several
// layers have their Styles merged with Merge, other keys are copied.
func MergeDeep(layers ...map[string]Styles) map[string]Styles {
	out := make(map[string]Styles)
	for _, layer := range layers {
		for key, styles := range layer {
			out[key] = Merge(out[key], styles)
		}
	}
	return out
}

// Rule renders a CSS rule block: ".btn { color: red; }".
func Rule(selector string, s Styles) string {
	if len(s) == 0 {
		return ""
	}
	return selector + " { " + s.String() + "; }"
}

// NormalizeProperty converts a property name to lower kebab-case.
// Leading uppercase letters mark vendor prefixes (WebkitX -> -webkit-x)
// and the React style "ms" prefix maps to "-ms-".
func NormalizeProperty(prop string) string {
	prop = strings.TrimSpace(prop)
	if prop == "" {
		return ""
	}
	if strings.HasPrefix(prop, "--") {
		// custom properties are case sensitive
		return prop
	}
	if strings.ToUpper(prop) == prop {
		return strings.ReplaceAll(strings.ToLower(prop), "_", "-")
	}

	var b strings.Builder
	b.Grow(len(prop) + 4)
	for i, r := range prop {
		switch {
		case unicode.IsUpper(r):
			if i > 0 || !strings.HasPrefix(prop, "-") {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case r == '_' || unicode.IsSpace(r):
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}

	out := b.String()
	if strings.HasPrefix(out, "ms-") {
		out = "-" + out
	}
	// "-webkit-" prefixes from an uppercase first letter keep their dash,
	// anything else must not start with one
	if strings.HasPrefix(out, "-") && !isVendorPrefixed(out) {
		out = strings.TrimLeft(out, "-")
	}
	return out
}

func isVendorPrefixed(prop string) bool {
	for _, p := range []string{"-webkit-", "-moz-", "-ms-", "-o-"} {
		if strings.HasPrefix(prop, p) {
			return true
		}
	}
	return false
}
