// Package web serves the browser UI and its JSON API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pitchperfect/pitch-perfect/clients"
	"github.com/pitchperfect/pitch-perfect/config"
	"github.com/pitchperfect/pitch-perfect/metrics"
	"github.com/pitchperfect/pitch-perfect/orchestrator"
	"github.com/pitchperfect/pitch-perfect/session"
)

type Server struct {
	server   *http.Server
	log      *logrus.Entry
	cfg      *config.Root
	pipeline *orchestrator.Pipeline
	store    *session.Store
	gw       *clients.Gateway
	metrics  *metrics.Metrics

	startTime time.Time
}

func NewServer(cfg *config.Root, pipeline *orchestrator.Pipeline, store *session.Store,
	gw *clients.Gateway, m *metrics.Metrics, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Server{
		log:       log.WithField("component", "web"),
		cfg:       cfg,
		pipeline:  pipeline,
		store:     store,
		gw:        gw,
		metrics:   m,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     mux,
		ReadTimeout: 5 * time.Minute, // uploads ride on the processing timeout
		IdleTimeout: 60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.counted("/", s.handleIndex))
	mux.HandleFunc("/api/process", s.counted("/api/process", s.handleProcess))
	mux.HandleFunc("/api/voices", s.counted("/api/voices", s.handleVoices))
	mux.HandleFunc("/api/history", s.counted("/api/history", s.handleHistory))
	mux.HandleFunc("/api/statistics", s.counted("/api/statistics", s.handleStatistics))
	mux.HandleFunc("/api/preferences", s.counted("/api/preferences", s.handlePreferences))
	mux.HandleFunc("/api/reset", s.counted("/api/reset", s.handleReset))
	mux.HandleFunc("/healthz", s.counted("/healthz", s.handleHealthz))
	mux.Handle("/metrics", promhttp.Handler())
}

// counted wraps a handler with the HTTP request counter.
func (s *Server) counted(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(ww, r)
		s.metrics.RecordHTTPRequest(r.Method, endpoint, fmt.Sprintf("%d", ww.statusCode))
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) Addr() string { return s.server.Addr }

func (s *Server) Start() error {
	s.log.WithField("addr", s.server.Addr).Info("starting web server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping web server")
	return s.server.Shutdown(ctx)
}
