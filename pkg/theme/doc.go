// Package theme manages email themes: named design-token trees plus
// per-component base styles.
//
// A theme may extend a parent. Resolve merges the chain root-first, so a
// child's tokens and component styles override its ancestors one level
// deep. Cycles are rejected when a theme is created or updated.
//
// The manager seeds a built-in "default" theme that cannot be updated or
// deleted, remembers which theme is active, and mirrors user themes to a
// storage.Adapter when one is configured.
package theme
