package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/emailkit/pkg/logger"
)

// ErrorMapper translates domain errors into HTTP errors before they are
// rendered. Returning err unchanged leaves classification to StatusOf.
type ErrorMapper func(err error) error

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if statusCode < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// NewErrorHandler creates the JSON error handler shared by every route.
// Client errors are logged at WARN, server errors at ERROR, and the body
// follows the JSONResponse envelope.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		for _, m := range mappers {
			err = m(err)
		}

		r := ctx.Request()
		status := StatusOf(err).Code
		log.LogAttrs(r.Context(), determineLogLevel(status), "request error",
			logger.RequestID(middleware.GetReqID(r.Context())),
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := JSONError(err).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.Error("failed to render error response",
				logger.Error(renderErr),
				logger.Event("render_error"),
			)
		}
	}
}
