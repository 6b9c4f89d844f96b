// Package server exposes the expression pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/vyPal/exprtree/lib/cache"
	"github.com/vyPal/exprtree/lib/config"
	"github.com/vyPal/exprtree/lib/lexer"
	"github.com/vyPal/exprtree/lib/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Logger is the subset of github.com/jcgregorio/logger.Logger the server
// uses.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type Server struct {
	conf     config.ServerConfig
	log      Logger
	cache    *cache.ResultCache
	registry *prometheus.Registry
	metrics  *metrics
}

type parseRequest struct {
	Expression *string `json:"expression"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(conf config.Config, log Logger) (*Server, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	engine, opts := conf.Parser.Engine, conf.ParserOptions()
	results, err := cache.New(conf.Server.CacheSize, func(expr string) (*pipeline.Result, error) {
		return pipeline.RunWith(engine, expr, opts...)
	})
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	return &Server{
		conf:     conf.Server,
		log:      log,
		cache:    results,
		registry: registry,
		metrics:  newMetrics(registry),
	}, nil
}

// Handler returns the routes wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Post("/parse", s.handleParse)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return cors.New(cors.Options{
		AllowedOrigins: s.conf.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}

// ListenAndServe serves on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.conf.Address)
	if err != nil {
		return pkgerrors.Wrapf(err, "listening on %s", s.conf.Address)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains in-flight
// requests before returning.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.log.Infof("Server running on %s", ln.Addr())

	select {
	case err := <-errc:
		return pkgerrors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return pkgerrors.Wrap(err, "shutting down")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return pkgerrors.Wrap(err, "serving")
	}
	s.log.Infof("Server stopped")
	return nil
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	body := http.MaxBytesReader(w, r.Body, s.conf.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.metrics.requests.WithLabelValues("bad_request").Inc()
		s.writeJSON(w, http.StatusBadRequest, errorResponse{"invalid request body: " + err.Error()})
		return
	}
	if req.Expression == nil {
		s.metrics.requests.WithLabelValues("bad_request").Inc()
		s.writeJSON(w, http.StatusBadRequest, errorResponse{"missing expression"})
		return
	}

	timer := prometheus.NewTimer(s.metrics.duration)
	res, hit, err := s.cache.Parse(*req.Expression)
	timer.ObserveDuration()
	if hit {
		s.metrics.cacheHits.Inc()
	}

	if err != nil {
		s.metrics.requests.WithLabelValues(classify(err)).Inc()
		s.log.Debugf("rejected %q: %s", *req.Expression, err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}
	s.metrics.requests.WithLabelValues("ok").Inc()
	s.writeJSON(w, http.StatusOK, res)
}

// classify labels a pipeline failure for the requests metric. Anything
// that is not a lexer error came from the parser, whichever engine ran.
func classify(err error) string {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return "lex_error"
	}
	return "parse_error"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("writing response: %s", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Infof("%s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}
