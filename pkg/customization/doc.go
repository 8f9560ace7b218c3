// Package customization ties the entity managers and the component
// registry together.
//
// The Engine resolves the final styles of a component by layering, in
// order: registry defaults, theme component styles, a preset, recipes,
// variants and caller overrides. Token references are substituted last
// against the resolved theme, so any layer may use {colors.primary} style
// values.
//
// The Engine also moves whole customization sets in and out of the system
// as a Bundle, encoded as JSON or YAML, and can push a bundle to any
// storage.Adapter for backups.
package customization
