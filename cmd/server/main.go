// Package main is the entry point for the DealIQ engine, an HTTP service
// that turns raw property data into investment strategy analyses and an
// opportunity verdict.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourorg/dealiq-engine/internal/assumptions"
	"github.com/yourorg/dealiq-engine/internal/circuitbreaker"
	"github.com/yourorg/dealiq-engine/internal/config"
	"github.com/yourorg/dealiq-engine/internal/export"
	"github.com/yourorg/dealiq-engine/internal/fetch"
	"github.com/yourorg/dealiq-engine/internal/model"
	"github.com/yourorg/dealiq-engine/internal/otel"
	"github.com/yourorg/dealiq-engine/internal/rentcomps"
	"github.com/yourorg/dealiq-engine/internal/security"
	"github.com/yourorg/dealiq-engine/internal/validation"
	"github.com/yourorg/dealiq-engine/internal/verdict"
)

// startTime records when the service was initialized for uptime reporting
var startTime = time.Now()

// ServerConfig holds toggles for optional server features
type ServerConfig struct {
	// Whether to enable the circuit breaker for feed protection
	EnableCircuitBreaker bool

	// Whether to validate facts before analysis
	EnableValidation bool

	// Whether to enable Prometheus metrics
	EnableMetrics bool
}

// Server represents the analysis service instance
type Server struct {
	cfg        config.Config
	serverCfg  ServerConfig
	providers  *fetch.MultiProviderClient
	server     *http.Server
	breaker    *circuitbreaker.CircuitBreaker
	metrics    *serverMetrics
	validation validation.ValidationOptions

	// Admin assumption overrides loaded at startup
	adminOverrides *assumptions.Overrides

	exporter  *export.VerdictExporter
	signer    *security.ReportSigner
	rateLimit *rate.Limiter
}

// serverMetrics holds Prometheus metrics for the server
type serverMetrics struct {
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	providerErrors  *prometheus.CounterVec
	circuitState    prometheus.Gauge
	iqScore         prometheus.Histogram
	factsCount      prometheus.Gauge
}

// registerMetrics sets up Prometheus metrics collection
func registerMetrics() *serverMetrics {
	m := &serverMetrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealiq_requests_total",
				Help: "Total number of analysis requests processed",
			},
			[]string{"status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealiq_request_duration_seconds",
				Help:    "Analysis request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		providerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealiq_provider_errors_total",
				Help: "Total number of data provider errors",
			},
			[]string{"provider"},
		),
		circuitState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dealiq_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
		),
		iqScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dealiq_iq_score",
				Help:    "Distribution of computed deal opportunity scores",
				Buckets: prometheus.LinearBuckets(0, 10, 10),
			},
		),
		factsCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dealiq_provider_facts_count",
				Help: "Number of provider facts records in the last analysis",
			},
		),
	}

	prometheus.MustRegister(
		m.requestCounter,
		m.requestDuration,
		m.providerErrors,
		m.circuitState,
		m.iqScore,
		m.factsCount,
	)

	return m
}

func main() {
	setupLogging()

	cfg := config.Load()

	shutdownTracing := otel.InitTracer(cfg)
	defer shutdownTracing()

	server := NewServer(cfg, ServerConfig{
		EnableCircuitBreaker: getEnvBool("ENABLE_CIRCUIT_BREAKER", true),
		EnableValidation:     getEnvBool("ENABLE_VALIDATION", true),
		EnableMetrics:        getEnvBool("ENABLE_METRICS", true),
	})
	server.Start()
}

// setupLogging configures the logging for the application
func setupLogging() {
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))

	switch logFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	switch logLevel {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.Info("Logging configured")
}

// NewServer creates a new server instance with providers and optional features
func NewServer(cfg config.Config, serverCfg ServerConfig) *Server {
	providers := fetch.NewMultiProviderClient()
	providers.RegisterProvider("rentcast", fetch.NewRentCastClient(cfg))
	providers.RegisterProvider("listings", fetch.NewListingsClient(cfg))
	providers.RegisterProvider("county", fetch.NewCountyClient(cfg))

	var breaker *circuitbreaker.CircuitBreaker
	if serverCfg.EnableCircuitBreaker {
		breaker = circuitbreaker.New(circuitbreaker.Thresholds{
			MaxValue:       cfg.MaxPropertyValue,
			MaxValueChange: cfg.MaxValueChange,
			MinProviders:   cfg.MinProviderCount,
		}).WithResetDelay(cfg.CircuitResetDelay).
			WithTripCallback(func(reason string, records []model.PropertyFacts) {
				logrus.Warnf("Feed circuit tripped: %s", reason)
			})
	}

	var metricsRegistry *serverMetrics
	if serverCfg.EnableMetrics {
		metricsRegistry = registerMetrics()
	}

	s := &Server{
		cfg:        cfg,
		serverCfg:  serverCfg,
		providers:  providers,
		breaker:    breaker,
		metrics:    metricsRegistry,
		validation: validation.DefaultValidationOptions(),
		exporter:   export.NewVerdictExporter(cfg.Export),
	}

	if cfg.AdminAssumptionsPath != "" {
		if overrides := assumptions.LoadAdminFile(cfg.AdminAssumptionsPath); overrides != nil {
			s.adminOverrides = overrides
			logrus.Infof("Loaded admin assumption overrides from %s", cfg.AdminAssumptionsPath)
		}
	}

	if cfg.RateLimit.Enabled {
		perSecond := float64(cfg.RateLimit.RequestsPerMin) / 60.0
		s.rateLimit = rate.NewLimiter(rate.Limit(perSecond), cfg.RateLimit.BurstSize)
		logrus.Infof("Rate limiting initialized: %d req/min, burst: %d",
			cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize)
	}

	if cfg.Signing.Enabled {
		signer, err := security.NewReportSigner(security.VerificationOptions{
			SignatureEnabled:     true,
			VerificationRequired: cfg.Signing.VerificationRequired,
			SignatureValidity:    cfg.Signing.SignatureValidity,
			StrictMode:           cfg.Signing.StrictMode,
		})
		if err != nil {
			logrus.Warnf("Failed to initialize report signer: %v", err)
		} else {
			s.signer = signer
		}
	}

	logrus.WithFields(logrus.Fields{
		"port":            cfg.Port,
		"rent_comp_mode":  cfg.RentCompMode,
		"circuit_breaker": serverCfg.EnableCircuitBreaker,
		"validation":      serverCfg.EnableValidation,
		"metrics":         serverCfg.EnableMetrics,
	}).Info("Server initialized")

	return s
}

// Start begins the HTTP server and sets up graceful shutdown
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/analyze", s.handleAnalyze)      // Main analysis endpoint
	mux.HandleFunc("/health", s.handleHealth)        // Health check endpoint
	mux.HandleFunc("/metrics", s.handleMetrics)      // Prometheus metrics endpoint
	mux.HandleFunc("/status", s.handleStatus)        // Service status endpoint
	mux.HandleFunc("/circuit", s.handleCircuit)      // Circuit breaker status/control
	mux.HandleFunc("/assumptions", s.handleDefaults) // Effective assumption defaults

	s.server = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on port %s", s.cfg.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Error starting server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.exporter.Stop()

	if err := s.server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server shutdown failed: %v", err)
	}

	logrus.Info("Server stopped")
}

// AnalyzeRequest is the request body for the /analyze endpoint. Callers
// either name a property to fetch from the data providers, or supply the
// facts inline and skip fetching entirely.
type AnalyzeRequest struct {
	PropertyID string                 `json:"property_id"`
	Facts      *model.PropertyFacts   `json:"facts,omitempty"`
	Comps      []model.RentComp       `json:"comps,omitempty"`
	Overrides  *assumptions.Overrides `json:"overrides,omitempty"`
}

// AnalyzeResponse wraps the deal analysis with request metadata
type AnalyzeResponse struct {
	StatusCode int                    `json:"statusCode"`
	Status     string                 `json:"status"`
	Data       verdict.DealAnalysis   `json:"data"`
	Error      string                 `json:"error,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// handleAnalyze runs the full pipeline for one property
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.rateLimit != nil && !s.rateLimit.Allow() {
		s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
		return
	}

	var request AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.PropertyID == "" && request.Facts == nil {
		s.errorResponse(w, http.StatusBadRequest, "property_id or facts required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	facts, comps, err := s.gatherFacts(ctx, request)
	if err != nil {
		s.errorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	// Derive a rent estimate from comps when no provider had one
	if facts.MonthlyRent == nil && len(comps) > 0 {
		estimate := rentcomps.Aggregate(comps, s.cfg.RentCompMode)
		if estimate.MonthlyRent > 0 {
			facts.MonthlyRent = model.FloatPtr(estimate.MonthlyRent)
			logrus.WithFields(logrus.Fields{
				"rent":       estimate.MonthlyRent,
				"comps":      estimate.CompCount,
				"method":     estimate.Method,
				"confidence": estimate.Confidence,
			}).Debug("Derived rent estimate from comps")
		}
	}

	resolved := assumptions.Resolve(s.adminOverrides, request.Overrides)
	analysis := verdict.Analyze(facts, resolved)

	if s.metrics != nil {
		s.metrics.iqScore.Observe(analysis.Verdict.Score)
		s.metrics.requestDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
		s.metrics.requestCounter.WithLabelValues("success").Inc()
	}

	s.exporter.Add(analysis)

	response := AnalyzeResponse{
		StatusCode: http.StatusOK,
		Status:     "success",
		Data:       analysis,
		Meta: map[string]interface{}{
			"latencyMs": time.Since(start).Milliseconds(),
			"timestamp": time.Now().Unix(),
		},
	}

	var responseData interface{} = response
	if s.signer != nil {
		signed, err := s.signer.SignReport(response)
		if err != nil {
			logrus.Warnf("Failed to sign analysis report: %v", err)
		} else {
			responseData = signed
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responseData)
}

// gatherFacts produces the canonical facts record: inline from the request,
// or fetched from the providers, validated and guarded by the breaker.
func (s *Server) gatherFacts(ctx context.Context, request AnalyzeRequest) (model.PropertyFacts, []model.RentComp, error) {
	if request.Facts != nil {
		facts := *request.Facts
		if facts.PropertyID == "" {
			facts.PropertyID = request.PropertyID
		}
		if s.serverCfg.EnableValidation {
			facts = validation.Sanitize(facts, s.validation)
		}
		return facts, request.Comps, nil
	}

	results, err := s.providers.FetchAll(ctx, request.PropertyID)
	if err != nil {
		return model.PropertyFacts{}, nil, fmt.Errorf("fetching property data: %w", err)
	}

	records := make([]model.PropertyFacts, 0, len(results))
	for _, r := range results {
		records = append(records, r.Facts)
	}

	if s.serverCfg.EnableValidation {
		records = validation.FilterInvalidWithOptions(records, s.validation)
		if len(records) == 0 {
			return model.PropertyFacts{}, nil, fmt.Errorf("no valid property data after validation")
		}
	}

	if s.breaker != nil {
		if err := s.breaker.Check(records); err != nil {
			logrus.Warnf("Feed circuit check failed: %v", err)

			lastGood := s.breaker.LastGoodFacts()
			if len(lastGood) > 0 {
				logrus.Info("Using last known good property data")
				records = lastGood
			} else {
				return model.PropertyFacts{}, nil, fmt.Errorf("circuit breaker open: %w", err)
			}
		}
		if s.metrics != nil {
			s.metrics.circuitState.Set(float64(s.breaker.GetState()))
		}
	}

	if s.metrics != nil {
		s.metrics.factsCount.Set(float64(len(records)))
	}

	// Re-pair surviving records with their comps for the merge
	kept := make([]fetch.Result, 0, len(records))
	for _, f := range records {
		var comps []model.RentComp
		for _, r := range results {
			if r.Facts.Provider == f.Provider {
				comps = r.Comps
				break
			}
		}
		kept = append(kept, fetch.Result{Facts: f, Comps: comps})
	}

	facts, comps := fetch.Merge(kept)
	return facts, comps, nil
}

// handleHealth is a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "OK",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleMetrics exposes Prometheus metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.serverCfg.EnableMetrics {
		http.Error(w, "Metrics disabled", http.StatusServiceUnavailable)
		return
	}

	promhttp.Handler().ServeHTTP(w, r)
}

// handleStatus provides detailed service status information
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "operational",
		"uptime":  time.Since(startTime).String(),
		"version": "1.0.0",
		"configuration": map[string]interface{}{
			"rent_comp_mode":  s.cfg.RentCompMode,
			"circuit_breaker": s.serverCfg.EnableCircuitBreaker,
			"validation":      s.serverCfg.EnableValidation,
			"admin_overrides": s.adminOverrides != nil,
			"signing":         s.signer != nil,
		},
		"export": s.exporter.Status(),
	}

	if s.breaker != nil {
		status["circuit_state"] = s.breaker.GetState()
	}
	if s.signer != nil {
		status["public_key"] = s.signer.GetPublicKey()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// handleCircuit allows viewing and controlling the circuit breaker
func (s *Server) handleCircuit(w http.ResponseWriter, r *http.Request) {
	if s.breaker == nil {
		http.Error(w, "Circuit breaker not enabled", http.StatusServiceUnavailable)
		return
	}

	response := map[string]interface{}{
		"state": s.breaker.GetState(),
	}

	if r.Method == http.MethodPost {
		if r.URL.Query().Get("action") == "reset" {
			s.breaker.Reset()
			response["state"] = s.breaker.GetState()
			response["message"] = "Circuit breaker reset"
		}
	}

	if lastGood := s.breaker.LastGoodFacts(); len(lastGood) > 0 {
		response["last_good_provider_count"] = len(lastGood)
		response["last_good_timestamp"] = time.Unix(lastGood[0].CollectedAt, 0).Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleDefaults returns the effective assumption set after admin overrides,
// so clients can show users what they are overriding.
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	resolved := assumptions.Resolve(s.adminOverrides, nil)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resolved)
}

// errorResponse returns a formatted error response
func (s *Server) errorResponse(w http.ResponseWriter, statusCode int, errorMsg string) {
	logrus.Warn(errorMsg)

	if s.metrics != nil {
		s.metrics.requestCounter.WithLabelValues("error").Inc()
	}

	response := AnalyzeResponse{
		StatusCode: statusCode,
		Status:     "error",
		Error:      errorMsg,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
