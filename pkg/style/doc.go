// Package style models CSS declarations as flat property maps and implements
// the merge and token-resolution rules shared by themes, variants, recipes
// and presets.
//
// Styles keys are kebab-case CSS properties. Keys written in camelCase
// (fontSize, WebkitTextSizeAdjust, msTransform) are normalised on every
// write path, including JSON decoding, so style objects exported by
// JavaScript tooling can be imported as is.
//
// Merging is last-write-wins: Merge(base, override) returns a new map in
// which override's values replace base's. An empty value removes the
// property, which lets a layer unset something an earlier layer added.
// MergeDeep applies the same rule one level down for maps of Styles keyed by
// component type.
//
// Token references use the {group.name} syntax inside values:
//
//	tokens := style.Tokens{"colors": {"primary": "#2563eb"}}
//	s := style.Styles{"border": "1px solid {colors.primary}"}
//	resolved, missing := style.ResolveTokens(s, tokens)
//	// resolved["border"] == "1px solid #2563eb", missing == nil
//
// A token value may itself reference other tokens. Resolution stops after
// MaxTokenDepth passes; references still present at that point (unknown
// names or cycles) are left verbatim and returned as missing.
package style
