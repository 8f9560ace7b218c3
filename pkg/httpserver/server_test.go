package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/httpserver"
)

func waitForAddr(t *testing.T, srv *httpserver.Server) net.Addr {
	t.Helper()
	var addr net.Addr
	require.Eventually(t, func() bool {
		addr = srv.Addr()
		return addr != nil
	}, 2*time.Second, 10*time.Millisecond)
	return addr
}

func TestRunAndShutdown(t *testing.T) {
	t.Parallel()

	var closed []string
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithOnShutdown("first", func(context.Context) error { closed = append(closed, "first"); return nil }),
		httpserver.WithOnShutdown("second", func(context.Context) error { closed = append(closed, "second"); return nil }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
	}()

	addr := waitForAddr(t, srv)
	resp, err := http.Get("http://" + addr.String())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, []string{"first", "second"}, closed)
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestShutdownCallbackError(t *testing.T) {
	t.Parallel()

	boom := errors.New("close failed")
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithOnShutdown("storage", func(context.Context) error { return boom }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, nil) }()
	waitForAddr(t, srv)
	cancel()

	err := <-done
	require.ErrorIs(t, err, httpserver.ErrShutdown)
	assert.ErrorIs(t, err, boom)
}

func TestStartError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := httpserver.New(httpserver.WithAddr(ln.Addr().String()))
	err = srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestAlreadyRunning(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, nil) }()
	waitForAddr(t, srv)

	err := srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-done)
}

func TestShutdownBeforeRun(t *testing.T) {
	t.Parallel()
	assert.NoError(t, httpserver.New().Shutdown(context.Background()))
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { httpserver.WithAddr("") })
	assert.Panics(t, func() { httpserver.WithReadTimeout(0) })
	assert.Panics(t, func() { httpserver.WithReadHeaderTimeout(-time.Second) })
	assert.Panics(t, func() { httpserver.WithWriteTimeout(0) })
	assert.Panics(t, func() { httpserver.WithIdleTimeout(0) })
	assert.Panics(t, func() { httpserver.WithShutdownTimeout(0) })
	assert.Panics(t, func() { httpserver.WithOnShutdown("x", nil) })
}

func TestNewFromConfigSkipsZeroValues(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		httpserver.NewFromConfig(httpserver.Config{})
	})
}

func TestHealthHandlers(t *testing.T) {
	t.Parallel()

	decode := func(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	t.Run("live", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		httpserver.LivenessHandler()(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"status": "alive"}, decode(t, w))
	})

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		h := httpserver.ReadinessHandler(nil, time.Second,
			httpserver.Probe{Name: "storage", Check: func(context.Context) error { return nil }},
		)
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"status": "ready", "checks": map[string]any{"storage": "ok"}}, decode(t, w))
	})

	t.Run("not ready", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		h := httpserver.ReadinessHandler(nil, time.Second,
			httpserver.Probe{Name: "storage", Check: func(context.Context) error { return nil }},
			httpserver.Probe{Name: "search", Check: func(context.Context) error { return errors.New("unreachable") }},
		)
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, map[string]any{
			"status": "not_ready",
			"checks": map[string]any{"storage": "ok", "search": "unreachable"},
		}, decode(t, w))
	})
}
