package binder

import "net/http"

// Query creates a query string binder.
//
// Supported struct tags:
//   - `query:"name"` - binds to query parameter "name"
//   - `query:"-"` - skips the field
//   - `query:"name,omitempty"` - same as query:"name" for parsing
//
// Fields may be strings, bools, ints, pointers to those, or slices. Bools
// accept on/off and yes/no, and a bare ?flag is true.
//
// Example:
//
//	type searchRequest struct {
//		Text  string   `query:"q"`
//		Tags  []string `query:"tags"` // ?tags=a&tags=b or ?tags=a,b
//		Limit int      `query:"limit"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		query := r.URL.Query()
		return bindFields(v, "query", func(name string) []string { return query[name] }, ErrFailedToParseQuery)
	}
}
