// Package sanitizer normalises user input before validation.
//
// Functions are plain string transforms that can be chained with Apply or
// bundled with Compose:
//
//	clean := sanitizer.Compose(sanitizer.Trim, sanitizer.ToKebabCase)
//	componentType := clean(" Hero Title ") // "hero-title"
//
// Name and Text are the pipelines used for entity names and descriptions.
// CSSValue and Styles strip constructs that could execute script or escape
// a style attribute; Tags and UniqueStrings clean tag and ID lists.
package sanitizer
