package misc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/repit/internal/gate"
	"github.com/2beens/repit/internal/middleware"
	"github.com/2beens/repit/internal/quotes"
	"github.com/2beens/repit/internal/telemetry/metrics"
	"github.com/2beens/repit/internal/telemetry/tracing"
	"github.com/2beens/repit/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type gateService interface {
	Unlock(ctx context.Context, password string) error
	Lock(ctx context.Context) error
}

type Handler struct {
	quotesManager *quotes.Manager
	versionInfo   string
	gate          gateService
}

func NewHandler(
	quotesManager *quotes.Manager,
	versionInfo string,
	gate gateService,
) *Handler {
	return &Handler{
		quotesManager: quotesManager,
		versionInfo:   versionInfo,
		gate:          gate,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	unlockAllowedPerMin int,
) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/quote/random", handler.handleGetRandomQuote).Methods("GET").Name("quote")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")

	gateSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	gateSubrouter.
		HandleFunc("/unlock", handler.handleUnlock).
		Methods("POST", "OPTIONS").Name("unlock")
	gateSubrouter.
		HandleFunc("/lock", handler.handleLock).
		Methods("GET", "OPTIONS").Name("lock")

	// guessing the shared secret is the only thing worth limiting
	gateSubrouter.Use(middleware.RateLimit(rateLimiter, "unlock", unlockAllowedPerMin, metricsManager))
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetRandomQuote(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.quote")
	defer span.End()

	q := handler.quotesManager.RandomQuote()
	span.SetAttributes(attribute.String("quote.genre", q.Genre))
	pkg.WriteJSON(w, q, http.StatusOK)
}

func (handler *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.unlock")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type unlockRequest struct {
		Password string `json:"password"`
	}

	var unlockReq unlockRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&unlockReq); err != nil {
			log.Errorf("unlock, unmarshal json params: %s", err)
			pkg.WriteJSONError(w, "unlock failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("unlock failed, parse form error: %s", err)
			pkg.WriteJSONError(w, "parse form error", http.StatusBadRequest)
			return
		}
		unlockReq.Password = r.Form.Get("password")
	}

	if unlockReq.Password == "" {
		pkg.WriteJSONError(w, "password empty", http.StatusBadRequest)
		return
	}

	err := handler.gate.Unlock(ctx, unlockReq.Password)
	switch {
	case err == nil:
		log.Trace("gate unlocked")
		span.SetStatus(codes.Ok, "unlocked")
		pkg.WriteJSON(w, map[string]bool{"unlocked": true}, http.StatusOK)
	case errors.Is(err, gate.ErrWrongPassword):
		reqIp, _ := pkg.ReadUserIP(r)
		log.Warnf("wrong gate password from [%s]", reqIp)
		span.SetStatus(codes.Error, "wrong-password")
		pkg.WriteJSONError(w, "wrong password", http.StatusUnauthorized)
	case errors.Is(err, gate.ErrNoSecret):
		span.SetStatus(codes.Error, "no-secret")
		pkg.WriteJSONError(w, "access is not configured", http.StatusServiceUnavailable)
	default:
		log.Errorf("unlock: %s", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, "failed to save your data, please try again", http.StatusInternalServerError)
	}
}

func (handler *Handler) handleLock(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.lock")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := handler.gate.Lock(ctx); err != nil {
		log.Errorf("lock: %s", err)
		span.RecordError(err)
		pkg.WriteJSONError(w, "lock failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, map[string]bool{"unlocked": false}, http.StatusOK)
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
