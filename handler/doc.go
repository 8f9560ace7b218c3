// Package handler provides type-safe HTTP request handling for the emailkit API.
//
// Handlers are generic functions that receive a bound request struct and
// return a Response:
//
//	type resolveRequest struct {
//		ID string `path:"id"`
//	}
//
//	func resolvedTheme(ctx handler.Context, req resolveRequest) handler.Response {
//		resolved, err := themes.Resolve(req.ID)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(resolved)
//	}
//
//	r.Get("/themes/{id}/resolved", handler.Wrap(resolvedTheme,
//		handler.WithBinder[handler.Context, resolveRequest](binder.Path(chi.URLParam)),
//	))
//
// # Responses
//
//   - JSON / JSONError: the {data, meta, error} envelope.
//   - Templ: a templ component rendered as text/html (document previews).
//   - HTML / Blob: pre-rendered bytes, optionally as an attachment (exports,
//     backup bundles).
//   - Empty / EmptyWithStatus: status only.
//
// # Errors
//
// StatusOf classifies errors: HTTPError carries its own code,
// validator.ValidationErrors become 422 with per-field details, binder
// failures become 400, 413 or 415, and everything else 500. Server error
// messages are replaced by the status text so internal causes are only
// logged. NewErrorHandler adds logging and accepts ErrorMapper functions that
// translate domain sentinels (not found, read-only, conflicts) into HTTPError
// values before classification.
package handler
