// Package export turns builder markup into HTML that survives email
// clients.
//
// Export runs a fixed sequence of string passes over the input:
//
//  1. remove <script> elements, inline event handlers and stylesheet links
//  2. extract <style> blocks, keeping @media rules for the document head
//  3. inline rules with simple selectors (.class, tag, tag.class)
//  4. strip CSS properties that email clients ignore or mangle
//  5. convert <div data-layout="..."> containers into presentation tables
//  6. apply Outlook fixes
//  7. wrap the body in the XHTML email document template
//  8. minify, keeping conditional comments
//  9. audit the output for common compatibility problems
//
// Every problem found along the way is reported as a Warning. Export never
// fails: empty input or an internal error yields a Result with empty HTML
// and a "general" warning of severity "error".
//
// Service adds an LRU cache in front of Export, keyed by the SHA-256 of the
// input and options.
package export
