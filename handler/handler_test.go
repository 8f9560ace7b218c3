package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
)

type echoRequest struct {
	ID   string `path:"id" json:"-"`
	Name string `json:"name"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var body handler.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWrap(t *testing.T) {
	t.Parallel()

	echo := func(ctx handler.Context, req echoRequest) handler.Response {
		return handler.JSON(map[string]string{"id": req.ID, "name": req.Name})
	}
	h := handler.Wrap(echo,
		handler.WithBinders[handler.Context, echoRequest](
			binder.Path(func(*http.Request, string) string { return "thm_1" }),
			binder.JSON(),
		),
	)

	t.Run("binds path and body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"Ocean"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"id": "thm_1", "name": "Ocean"}, decode(t, w).Data)
	})

	t.Run("empty body skips json binder", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"id": "thm_1", "name": ""}, decode(t, w).Data)
	})

	t.Run("binder error renders 400", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decode(t, w).Error.Code)
	})

	t.Run("nil response goes to error handler", func(t *testing.T) {
		t.Parallel()
		var got error
		nilHandler := handler.Wrap(
			func(handler.Context, echoRequest) handler.Response { return nil },
			handler.WithErrorHandler[handler.Context, echoRequest](func(_ handler.Context, err error) { got = err }),
		)
		nilHandler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, got, handler.ErrNilResponse)
	})

	t.Run("error response reaches error handler", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		var got error
		h := handler.Wrap(
			func(handler.Context, echoRequest) handler.Response { return handler.Error(boom) },
			handler.WithErrorHandler[handler.Context, echoRequest](func(_ handler.Context, err error) { got = err }),
		)
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, got, boom)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		mark := func(name string) handler.Decorator[handler.Context, echoRequest] {
			return func(next handler.HandlerFunc[handler.Context, echoRequest]) handler.HandlerFunc[handler.Context, echoRequest] {
				return func(ctx handler.Context, req echoRequest) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		decorated := handler.Wrap(
			func(handler.Context, echoRequest) handler.Response { return handler.Empty() },
			handler.WithDecorators(mark("outer"), mark("inner")),
		)
		w := httptest.NewRecorder()
		decorated(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []string{"outer", "inner"}, order)
	})
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	cause := errors.New("theme: not found")
	err := handler.ErrNotFound.Wrap(cause)

	assert.ErrorIs(t, err, handler.ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, handler.ErrConflict)
	assert.Equal(t, "theme: not found", err.Error())
	assert.Equal(t, "conflict", handler.ErrConflict.Error())
}

func TestResponses(t *testing.T) {
	t.Parallel()

	t.Run("blob attachment", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		resp := handler.Blob([]byte("a: 1\n"), "application/yaml",
			handler.AsAttachment("backup.yaml"),
			handler.WithHeader("X-Export-Warnings", "2"),
		)
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="backup.yaml"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "2", w.Header().Get("X-Export-Warnings"))
		assert.Equal(t, "5", w.Header().Get("Content-Length"))
		assert.Equal(t, "a: 1\n", w.Body.String())
	})

	t.Run("html", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.HTML("<p>hi</p>").Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "<p>hi</p>", w.Body.String())
	})

	t.Run("empty with status", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.EmptyWithStatus(http.StatusAccepted).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("json with status and meta", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		resp := handler.JSON([]string{"a"},
			handler.WithJSONStatus(http.StatusCreated),
			handler.WithJSONMeta(map[string]any{"total": 1}),
		)
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, []any{"a"}, body.Data)
		assert.Equal(t, map[string]any{"total": float64(1)}, body.Meta)
	})
}
