package style

import (
	"maps"
	"regexp"
	"slices"
	"strings"
)

// MaxTokenDepth bounds how many times a value is re-scanned for references.
const MaxTokenDepth = 8

var tokenRef = regexp.MustCompile(`\{([A-Za-z0-9_-]+)\.([A-Za-z0-9_-]+)\}`)

// Tokens groups design values: group -> name -> value.
type Tokens map[string]map[string]string

// Lookup returns the value for a "group.name" path.
func (t Tokens) Lookup(path string) (string, bool) {
	group, name, ok := strings.Cut(path, ".")
	if !ok {
		return "", false
	}
	v, ok := t[group][name]
	return v, ok
}

// Clone returns a two-level copy of t.
func (t Tokens) Clone() Tokens {
	out := make(Tokens, len(t))
	for g, values := range t {
		out[g] = maps.Clone(values)
	}
	return out
}

// MergeTokens merges token trees one level deep: groups present in several
// layers have their values merged, later layers win.
func MergeTokens(layers ...Tokens) Tokens {
	out := make(Tokens)
	for _, layer := range layers {
		for g, values := range layer {
			if out[g] == nil {
				out[g] = make(map[string]string, len(values))
			}
			maps.Copy(out[g], values)
		}
	}
	return out
}

// References lists the "group.name" paths referenced in value, in order of appearance.
func References(value string) []string {
	matches := tokenRef.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1]+"."+m[2])
	}
	return refs
}

// ResolveValue substitutes token references in value. It returns the
// resolved string and the references that could not be resolved.
func ResolveValue(value string, tokens Tokens) (string, []string) {
	for range MaxTokenDepth {
		replaced := false
		value = tokenRef.ReplaceAllStringFunc(value, func(m string) string {
			v, ok := tokens.Lookup(m[1 : len(m)-1])
			if !ok {
				return m
			}
			replaced = true
			return v
		})
		if !replaced {
			break
		}
	}
	return value, References(value)
}

// ResolveTokens returns a copy of s with every token reference substituted,
// plus the sorted, de-duplicated list of unresolved references.
func ResolveTokens(s Styles, tokens Tokens) (Styles, []string) {
	out := make(Styles, len(s))
	seen := make(map[string]struct{})
	for k, v := range s {
		resolved, missing := ResolveValue(v, tokens)
		out[k] = resolved
		for _, m := range missing {
			seen[m] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return out, nil
	}
	return out, slices.Sorted(maps.Keys(seen))
}
