package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey contextKey = "dryRun"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// verbose counts in-flight verbose requests. Debug logging stays on until the
// last of them finishes, then the level it replaced comes back.
var verbose struct {
	sync.Mutex
	active int
	level  log.Level
}

// enableVerbose switches on debug logging and returns the func that releases it.
func enableVerbose() func() {
	verbose.Lock()
	defer verbose.Unlock()
	if verbose.active == 0 {
		verbose.level = log.GetLevel()
		log.SetLevel(log.DebugLevel)
	}
	verbose.active++

	var once sync.Once
	return func() {
		once.Do(func() {
			verbose.Lock()
			defer verbose.Unlock()
			verbose.active--
			if verbose.active == 0 {
				log.SetLevel(verbose.level)
			}
		})
	}
}

// paramsMiddleware handles the 'verbose' and 'dry_run' query parameters and
// logs each request with its status and duration.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if r.URL.Query().Get("verbose") == "true" {
			defer enableVerbose()()
		}

		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		log.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "dry_run", isDryRun, "duration_ms", time.Since(start).Milliseconds())
	})
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}
