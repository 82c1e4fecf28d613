// ABOUTME: HTTP delivery for the dispatcher: buffered and streamed MCP endpoints.
// ABOUTME: Gateway metadata may arrive in the X-Amz-Client-Context header.

package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2389/agentcore-bridge/internal/dispatch"
	"github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/metrics"
)

// ClientContextHeader carries base64 JSON of the form {"custom":{...}}.
const ClientContextHeader = "X-Amz-Client-Context"

// DefaultMaxBodySize bounds an inbound request body when Config sets none.
const DefaultMaxBodySize = 4 << 20

const shutdownTimeout = 10 * time.Second

// Config holds configuration for the HTTP server.
type Config struct {
	Addr        string
	Dispatcher  *dispatch.Dispatcher
	Metrics     *metrics.Metrics
	MetricsPath string
	MaxBodySize int64
	Logger      *slog.Logger
}

// Server serves the dispatcher over HTTP.
type Server struct {
	addr       string
	dispatcher *dispatch.Dispatcher
	metrics    *metrics.Metrics
	metricsAt  string
	maxBody    int64
	logger     *slog.Logger
	router     chi.Router
}

// New creates a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}

	s := &Server{
		addr:       cfg.Addr,
		dispatcher: cfg.Dispatcher,
		metrics:    cfg.Metrics,
		metricsAt:  cfg.MetricsPath,
		maxBody:    maxBody,
		logger:     logger,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/mcp", s.handleBuffered)
	r.Post("/mcp/stream", s.handleStream)

	if s.metrics != nil && s.metricsAt != "" {
		r.Method(http.MethodGet, s.metricsAt, s.metrics.Handler())
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleBuffered(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.readInvocation(w, r)
	if !ok {
		return
	}
	data := s.dispatcher.Encode(r.Context(), inv)

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("writing response", "error", err)
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.readInvocation(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if err := s.dispatcher.Stream(r.Context(), inv, newFlushWriter(w)); err != nil {
		s.logger.Warn("streaming response", "error", err)
	}
}

// readInvocation reads the body and client-context header. On failure it
// writes a JSON-RPC error and reports false.
func (s *Server) readInvocation(w http.ResponseWriter, r *http.Request) (dispatch.Invocation, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.logger.Warn("reading request body", "error", err)
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, mcp.NewError(nil, mcp.CodeInvalidRequest, "Invalid Request: "+err.Error()))
		return dispatch.Invocation{}, false
	}

	return dispatch.Invocation{
		Event:    body,
		Metadata: s.metadata(r),
	}, true
}

func (s *Server) metadata(r *http.Request) json.RawMessage {
	header := r.Header.Get(ClientContextHeader)
	if header == "" {
		return nil
	}

	raw, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		s.logger.Warn("ignoring undecodable client context", "error", err)
		return nil
	}
	var cc struct {
		Custom map[string]string `json:"custom"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		s.logger.Warn("ignoring malformed client context", "error", err)
		return nil
	}
	return dispatch.NewMetadata(dispatch.KeyClientContextSnake, cc.Custom)
}

func writeError(w http.ResponseWriter, status int, resp *mcp.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// flushWriter adapts a ResponseWriter to io.WriteCloser, flushing each write
// so bytes reach the client as soon as they are produced.
type flushWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newFlushWriter(w http.ResponseWriter) *flushWriter {
	return &flushWriter{w: w, rc: http.NewResponseController(w)}
}

func (f *flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, err
	}
	if err := f.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return n, err
	}
	return n, nil
}

func (f *flushWriter) Close() error {
	if err := f.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
