// Package binder fills typed request structs from HTTP requests.
//
// Each binder is a func(r *http.Request, v any) error and handles exactly one
// source, so several of them can be chained with handler.WithBinders:
//
//	type updateThemeRequest struct {
//		ID     string            `path:"id" json:"-"`
//		Force  bool              `query:"force" json:"-"`
//		Name   string            `json:"name"`
//		Tokens map[string]string `json:"tokens"`
//	}
//
//	r.Put("/themes/{id}", handler.Wrap(updateTheme,
//		handler.WithBinders[handler.Context, updateThemeRequest](
//			binder.Path(chi.URLParam),
//			binder.Query(),
//			binder.JSON(),
//		),
//	))
//
// JSON decodes strictly (unknown fields are rejected) and caps the body at
// DefaultMaxJSONSize. A request without a body returns ErrBinderNotApplicable,
// which Wrap treats as "nothing to bind" rather than a failure. String values
// are not rewritten: the API accepts raw HTML documents and style values that
// must reach the export pipeline untouched.
//
// Path and Query only touch fields tagged `path` and `query`. An empty tag
// name falls back to the lowercased field name and `-` skips a field. Supported field
// types are strings, signed and unsigned integers, floats, bools, pointers to
// those and slices (repeated or comma separated values).
package binder
