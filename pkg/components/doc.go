// Package components renders the building blocks of an email as templ
// components.
//
// Content components (Button, Heading, Text, Image, Divider, Spacer) emit
// plain HTML with inline styles. Layout containers (Section, Columns,
// Column) emit <div data-layout="..."> wrappers that the export pass turns
// into presentation tables, so previews stay readable in a browser while
// exported mail uses table layout.
//
// Document wraps a body into a full preview page. Render turns any
// component into a string.
package components
