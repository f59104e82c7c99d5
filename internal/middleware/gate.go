package middleware

import (
	"context"
	"net/http"

	"github.com/2beens/repit/internal/telemetry/tracing"
	"github.com/2beens/repit/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=gate_mocks_test.go -package=middleware_test

type gateChecker interface {
	IsUnlocked(ctx context.Context) (bool, error)
}

type GateMiddlewareHandler struct {
	checker      gateChecker
	allowedPaths map[string]bool
}

func NewGateMiddlewareHandler(checker gateChecker) *GateMiddlewareHandler {
	return &GateMiddlewareHandler{
		checker: checker,
		allowedPaths: map[string]bool{
			"/":             true,
			"/version":      true,
			"/quote/random": true,
			"/a/unlock":     true,
			"/a/lock":       true,
		},
	}
}

// GateCheck lets through only the public paths until the gate is unlocked.
func (h *GateMiddlewareHandler) GateCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.gate")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			unlocked, err := h.checker.IsUnlocked(ctx)
			if err != nil {
				log.Errorf("[failed gate check] => %s: %s", r.URL.Path, err)
				pkg.WriteJSONError(w, "locked", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "gate-check-err")
				span.RecordError(err)
				return
			}
			if !unlocked {
				log.Tracef("[locked] [gate middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "locked", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "locked")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
