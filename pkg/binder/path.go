package binder

import (
	"fmt"
	"net/http"
)

// Path creates a path parameter binder backed by the router's extractor,
// chi.URLParam in this repository. Only fields with an explicit `path` tag are
// bound so that request structs can mix path, query and body fields.
//
//	type activateRequest struct {
//		ID string `path:"id"`
//	}
//
//	r.Post("/themes/{id}/activate", handler.Wrap(activate,
//		handler.WithBinder[handler.Context, activateRequest](binder.Path(chi.URLParam)),
//	))
func Path(extractor func(r *http.Request, key string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}
		return bindFields(v, "path", func(name string) []string {
			if value := extractor(r, name); value != "" {
				return []string{value}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}
