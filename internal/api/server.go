// Package api serves the recommender over HTTP for the chat frontend.
package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/recommender"
)

// Recommender is satisfied by *recommender.Ranker.
type Recommender interface {
	Recommend(ctx context.Context, req recommender.Request) (*recommender.Recommendation, error)
}

// ReadinessCheck reports whether the service can answer requests.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	ServiceName    string
	AllowedOrigins []string
	// Ready is probed by GET /ready. nil means always ready.
	Ready ReadinessCheck
	// MetricsHandler overrides the default promhttp handler on /metrics.
	MetricsHandler http.Handler
}

type Server struct {
	ranker  Recommender
	options Options
	logger  logger.Logger
}

func NewServer(ranker Recommender, options Options, log logger.Logger) *Server {
	if options.MetricsHandler == nil {
		options.MetricsHandler = promhttp.Handler()
	}
	return &Server{
		ranker:  ranker,
		options: options,
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Handler returns the routed handler with request id, CORS, access log and
// tracing applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /swap", s.handleSwap)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", s.options.MetricsHandler)

	var h http.Handler = mux
	h = AccessLog(s.logger)(h)
	h = CORS(s.options.AllowedOrigins)(h)
	h = RequestID(h)
	if s.options.ServiceName != "" {
		h = Tracing(s.options.ServiceName)(h)
	}
	return h
}
