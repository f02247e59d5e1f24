// Package api exposes the fingerprint operations over HTTP.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Nomadcxx/jellycache/internal/config"
	"github.com/Nomadcxx/jellycache/internal/database"
	"github.com/Nomadcxx/jellycache/internal/jellyfin"
	"github.com/Nomadcxx/jellycache/internal/logging"
	"github.com/Nomadcxx/jellycache/internal/metrics"
	"github.com/Nomadcxx/jellycache/internal/quality"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server implements the API
type Server struct {
	cfg       *config.Config
	db        *database.VariantDB
	log       *logging.Scope
	extractor *quality.Extractor
	upstream  *jellyfin.Client
}

// NewServer creates a new API server. db may be nil, in which case the
// variant endpoints report 503 and nothing is recorded. A nil log
// discards output.
func NewServer(cfg *config.Config, db *database.VariantDB, log *logging.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		cfg: cfg,
		db:  db,
		log: log.Component("api"),
		extractor: quality.NewExtractor(quality.Observers(
			logging.NewQualityObserver(log),
			metrics.NewExtractObserver(),
		)),
	}
	if cfg.Upstream.URL != "" {
		s.upstream = jellyfin.NewClient(jellyfin.Config{URL: cfg.Upstream.URL, Timeout: upstreamTimeout})
	}
	return s
}

const upstreamTimeout = 3 * time.Second

// Handler returns the HTTP handler with CORS, API routes and metrics
func (s *Server) Handler() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	if len(s.cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Server.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Mount("/api/v1", s.apiRouter())

	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, promhttp.Handler())
	}

	return r
}

func (s *Server) apiRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Get("/health", s.HealthCheck)
	r.Get("/fingerprint", s.GetFingerprint)
	r.Post("/compare", s.CompareURLs)
	r.Get("/variants", s.ListVariants)
	r.Get("/variants/{key}", s.GetVariant)
	r.Delete("/variants/{key}", s.DeleteVariant)

	return r
}

// requestLogger logs each request at debug level and feeds the HTTP
// metrics, keyed by route pattern to keep label cardinality bounded.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(elapsed.Seconds())

		s.log.Debug("request",
			logging.F("method", r.Method),
			logging.F("path", r.URL.Path),
			logging.F("status", status),
			logging.F("duration", elapsed),
			logging.F("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
