package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/vsinha/coilplan/pkg/application/dto"
	"github.com/vsinha/coilplan/pkg/application/services/planning"
	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/infrastructure/config"
	"github.com/vsinha/coilplan/pkg/infrastructure/events"
	"github.com/vsinha/coilplan/pkg/infrastructure/repositories/csv"
)

// StateStore persists the planning state after every change
type StateStore interface {
	Save(snapshot *dto.Snapshot) error
}

// EventLog is the read side of the planning event store
type EventLog interface {
	ReadEvents(streamID string, fromVersion int) ([]events.Event, error)
	ReadAllEvents(fromPosition int) ([]events.Event, error)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Server exposes the planning service over HTTP
type Server struct {
	service *planning.Service
	state   StateStore
	events  EventLog
	loader  *csv.Loader
	config  config.ServerConfig
	logger  zerolog.Logger
	server  *fasthttp.Server
}

// NewServer creates a server. state may be nil to keep everything in memory
// and log may be nil when no event store is wired.
func NewServer(service *planning.Service, state StateStore, log EventLog, cfg config.ServerConfig, logger zerolog.Logger) *Server {
	s := &Server{
		service: service,
		state:   state,
		events:  log,
		loader:  csv.NewLoader(),
		config:  cfg,
		logger:  logger,
	}
	s.server = &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "coilplan",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// ListenAndServe serves on the configured address until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe(s.config.Addr)
	}()
	s.logger.Info().Str("addr", s.config.Addr).Msg("http server listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down http server")
		return s.server.Shutdown()
	}
}

// Handler returns the request router
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.logRequests(s.route)
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	switch {
	case path == "/healthz" && method == fasthttp.MethodGet:
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})

	case path == "/api/coils" && method == fasthttp.MethodGet:
		s.handleListCoils(ctx)
	case path == "/api/coils" && method == fasthttp.MethodPost:
		s.handleImportCoils(ctx)
	case path == "/api/orders" && method == fasthttp.MethodGet:
		s.handleListOrders(ctx)
	case path == "/api/orders" && method == fasthttp.MethodPost:
		s.handleImportOrders(ctx)
	case path == "/api/lines" && method == fasthttp.MethodGet:
		s.handleListLines(ctx)
	case path == "/api/lines" && method == fasthttp.MethodPost:
		s.handleImportLines(ctx)

	case path == "/api/optimize" && method == fasthttp.MethodPost:
		s.handleOptimize(ctx)
	case path == "/api/confirm" && method == fasthttp.MethodPost:
		s.handleConfirm(ctx)
	case path == "/api/clear" && method == fasthttp.MethodPost:
		s.handleClear(ctx)
	case path == "/api/plan" && method == fasthttp.MethodGet:
		s.handlePlan(ctx)
	case path == "/api/plan.xlsx" && method == fasthttp.MethodGet:
		s.handlePlanWorkbook(ctx)
	case path == "/api/summary" && method == fasthttp.MethodGet:
		s.handleSummary(ctx)
	case path == "/api/events" && method == fasthttp.MethodGet:
		s.handleEvents(ctx)

	case knownPath(path):
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found: "+path)
	}
}

var paths = []string{
	"/healthz", "/api/coils", "/api/orders", "/api/lines", "/api/optimize",
	"/api/confirm", "/api/clear", "/api/plan", "/api/plan.xlsx", "/api/summary",
	"/api/events",
}

func knownPath(path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}

func (s *Server) logRequests(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		status := ctx.Response.StatusCode()
		event := s.logger.Debug()
		if status >= fasthttp.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", status).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

// persist saves the current state when a state store is configured
func (s *Server) persist(ctx context.Context) error {
	if s.state == nil {
		return nil
	}
	return s.service.Persist(ctx, s.state)
}

// writeServiceError maps planning errors to status codes
func writeServiceError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, planning.ErrNoProposedPlan), errors.Is(err, entities.ErrInvalidTransition):
		writeError(ctx, fasthttp.StatusConflict, err.Error())
	case errors.Is(err, planning.ErrMissingBreakdown):
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
	default:
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to encode response: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	data, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func isCSV(ctx *fasthttp.RequestCtx) bool {
	return strings.Contains(strings.ToLower(string(ctx.Request.Header.ContentType())), "csv")
}
