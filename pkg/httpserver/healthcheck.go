package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/logger"
)

// Probe is a named readiness dependency, e.g. the storage adapter ping.
type Probe struct {
	Name  string
	Check func(context.Context) error
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler always answers 200 {"status":"alive"}.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, http.StatusOK, healthBody{Status: "alive"})
	}
}

// ReadinessHandler runs every probe with timeout and answers 200 "ready" when
// all pass, 503 "not_ready" otherwise. Each probe's outcome is listed under
// checks.
func ReadinessHandler(log *slog.Logger, timeout time.Duration, probes ...Probe) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		body := healthBody{Status: "ready", Checks: make(map[string]string, len(probes))}
		status := http.StatusOK
		for _, p := range probes {
			if err := p.Check(ctx); err != nil {
				log.WarnContext(ctx, "readiness check failed", slog.String("probe", p.Name), logger.Error(err))
				body.Checks[p.Name] = err.Error()
				body.Status = "not_ready"
				status = http.StatusServiceUnavailable
				continue
			}
			body.Checks[p.Name] = "ok"
		}
		writeHealth(w, status, body)
	}
}

func writeHealth(w http.ResponseWriter, status int, body healthBody) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
