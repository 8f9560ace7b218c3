package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/emailkit/pkg/binder"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

// JSONResponse is the standard JSON response structure
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONMeta adds metadata to response
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		r.body.Meta = meta
	}
}

// JSON creates a JSON response with options. Errors passed as v are rendered
// as error bodies with the status resolved by StatusOf.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK}

	switch val := v.(type) {
	case JSONResponse:
		r.body = val
	case *ErrorDetail:
		r.body.Error = val
		r.status = http.StatusInternalServerError
	case error:
		r.body.Error = errorToDetail(val, &r.status)
	default:
		r.body.Data = v
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// JSONError creates a JSON error response from an error with options
func JSONError(err any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusInternalServerError}

	switch e := err.(type) {
	case *ErrorDetail:
		r.body.Error = e
	case error:
		r.body.Error = errorToDetail(e, &r.status)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// StatusOf maps err to an HTTPError. Validation failures become 422, request
// binding failures 400/413/415, and anything unrecognised 500.
func StatusOf(err error) HTTPError {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case validator.IsValidationError(err):
		return ErrUnprocessableEntity.Wrap(err)
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return ErrUnsupportedMediaType.Wrap(err)
	case errors.Is(err, binder.ErrBodyTooLarge):
		return ErrRequestTooLarge.Wrap(err)
	case errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseQuery),
		errors.Is(err, binder.ErrFailedToParsePath),
		errors.Is(err, binder.ErrMissingContentType):
		return ErrBadRequest.Wrap(err)
	}
	return ErrInternalServerError.Wrap(err)
}

func errorToDetail(err error, status *int) *ErrorDetail {
	httpErr := StatusOf(err)
	*status = httpErr.Code

	detail := &ErrorDetail{Code: httpErr.Key, Message: err.Error()}
	if httpErr.Code >= http.StatusInternalServerError {
		// Internal causes are logged, not returned.
		detail.Message = http.StatusText(httpErr.Code)
	}

	if verrs := validator.ExtractValidationErrors(err); len(verrs) > 0 {
		detail.Code = "validation_error"
		detail.Message = "validation failed"
		detail.Details = make(map[string][]string, len(verrs))
		for _, ve := range verrs {
			detail.Details[ve.Field] = append(detail.Details[ve.Field], ve.Message)
		}
	}

	return detail
}

type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }

// Error defers err to the route's ErrorHandler, which maps, logs and renders
// it. Use JSONError to render an error body directly.
func Error(err error) Response {
	return errorResponse{err: err}
}
