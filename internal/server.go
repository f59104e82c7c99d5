package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/repit/internal/assistant"
	"github.com/2beens/repit/internal/config"
	"github.com/2beens/repit/internal/gate"
	"github.com/2beens/repit/internal/generator"
	"github.com/2beens/repit/internal/mcp"
	"github.com/2beens/repit/internal/middleware"
	"github.com/2beens/repit/internal/misc"
	"github.com/2beens/repit/internal/quotes"
	"github.com/2beens/repit/internal/telemetry/metrics"
	"github.com/2beens/repit/internal/telemetry/tracing"
	"github.com/2beens/repit/internal/workouts"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config  *config.Config
	storage *Storage

	workoutsService *workouts.Service
	gateService     *gate.Service
	quotesManager   *quotes.Manager

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     config.Secrets
	VersionInfo string
	// AssistantHTTPClient overrides the traced default client used for the assistant API.
	AssistantHTTPClient *http.Client
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	storage, err := OpenStorage(ctx, cfg, params.Secrets)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	promRegistry := metrics.SetupPrometheus(storage.Collectors...)
	metricsManager := metrics.NewManager("repit", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // set to 1 once serving

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(cfg.TracingEnabled, "repit-backend", storage.Redis)
	if err != nil {
		storage.Close()
		return nil, err
	}

	assistantHttpClient := params.AssistantHTTPClient
	if assistantHttpClient == nil {
		assistantHttpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	planGenerator := generator.New(
		assistant.NewClient(cfg.AssistantBaseURL, params.Secrets.AssistantAPIKey, assistantHttpClient),
		generator.Params{
			APIKey:       params.Secrets.AssistantAPIKey,
			AssistantID:  params.Secrets.AssistantID,
			PollInterval: cfg.AssistantPollInterval.Duration,
			Timeout:      cfg.AssistantTimeout.Duration,
		},
		nil,
		metricsManager,
	)

	workoutsService := workouts.NewService(
		workouts.NewStore(storage.KV, cfg.StorageNamespace, metricsManager),
		planGenerator,
		metricsManager,
	)
	if err := workoutsService.Reload(ctx); err != nil {
		otelShutdown()
		storage.Close()
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	quotesManager, err := quotes.NewManagerFromFile(cfg.QuotesCsvPath)
	if err != nil {
		otelShutdown()
		storage.Close()
		return nil, fmt.Errorf("failed to create quote manager: %w", err)
	}

	return &Server{
		config:      cfg,
		storage:     storage,
		versionInfo: params.VersionInfo,

		workoutsService: workoutsService,
		gateService: gate.NewService(
			storage.KV,
			cfg.StorageNamespace,
			params.Secrets.SitePassword,
			metricsManager,
		),
		quotesManager: quotesManager,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	// shared limit across instances with redis, per process otherwise
	var reqRateLimiter middleware.RequestRateLimiter
	if s.storage.Redis != nil {
		reqRateLimiter = redis_rate.NewLimiter(s.storage.Redis)
	} else {
		reqRateLimiter = middleware.NewLocalRateLimiter(s.config.RateLimitCacheSizeMB)
	}
	miscHandler := misc.NewHandler(s.quotesManager, s.versionInfo, s.gateService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.UnlockRateLimitPerMin)

	workoutsHandler := workouts.NewHandler(s.workoutsService)
	workoutsHandler.SetupRoutes(r)

	mcpHandler := mcp.NewHTTPHandler(mcp.NewServer(s.workoutsService, false))
	r.PathPrefix("/mcp").Handler(mcpHandler).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	gateMiddleware := middleware.NewGateMiddlewareHandler(s.gateService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins...))
	r.Use(gateMiddleware.GateCheck())
	r.Use(middleware.DrainAndCloseRequest(middleware.DefaultMaxBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: router,
		Addr:    ipAndPort,
		// generation polls the assistant for up to the configured timeout
		WriteTimeout: s.writeTimeout(),
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) writeTimeout() time.Duration {
	timeout := s.config.AssistantTimeout.Duration
	if timeout <= 0 {
		// unbounded generation, leave writes unbounded too
		return 0
	}
	return timeout + time.Minute
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	log.Debugln("closing storage ...")
	s.storage.Close()
	log.Debugln("storage closed")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
