// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/tierlist/internal/domain/placement"
	"github.com/okian/tierlist/internal/domain/render"
	"github.com/okian/tierlist/internal/domain/types"
	"github.com/okian/tierlist/pkg/logger"
)

const maxBodyBytes = 1 << 16

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	BoardDependencies
	EntryDependencies
	DragDependencies
	ShareDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	boardHandler  *BoardHandler
	entryHandler  *EntryHandler
	dragHandler   *DragHandler
	shareHandler  *ShareHandler
	logger        logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{logger: logger.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("api")
	r := responder{logger: s.logger}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.boardHandler = &BoardHandler{deps: deps, r: r}
	s.entryHandler = &EntryHandler{deps: deps, r: r}
	s.dragHandler = &DragHandler{deps: deps, r: r}
	s.shareHandler = &ShareHandler{deps: deps, r: r}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /board", MetricsMiddleware(s.boardHandler.HandleGetBoard, "board"))
	mux.HandleFunc("POST /delete-mode", MetricsMiddleware(s.boardHandler.HandleToggleDeleteMode, "delete_mode"))
	mux.HandleFunc("POST /clear", MetricsMiddleware(s.boardHandler.HandleClear, "clear"))
	mux.HandleFunc("POST /reset", MetricsMiddleware(s.boardHandler.HandleReset, "reset"))

	mux.HandleFunc("POST /entries", MetricsMiddleware(s.entryHandler.HandleAddPerson, "entries"))
	mux.HandleFunc("POST /entries/ethos", MetricsMiddleware(s.entryHandler.HandleAddEthosUser, "entries_ethos"))
	mux.HandleFunc("DELETE /entries/{id}", MetricsMiddleware(s.entryHandler.HandleDelete, "entries_delete"))
	mux.HandleFunc("GET /entries/{id}/render", MetricsMiddleware(s.entryHandler.HandleRender, "entries_render"))

	mux.HandleFunc("POST /drag/start", MetricsMiddleware(s.dragHandler.HandleStart, "drag_start"))
	mux.HandleFunc("POST /drag/end", MetricsMiddleware(s.dragHandler.HandleEnd, "drag_end"))
	mux.HandleFunc("POST /drag/enter", MetricsMiddleware(s.dragHandler.HandleEnter, "drag_enter"))
	mux.HandleFunc("POST /drag/leave", MetricsMiddleware(s.dragHandler.HandleLeave, "drag_leave"))
	mux.HandleFunc("POST /drop", MetricsMiddleware(s.dragHandler.HandleDrop, "drop"))

	mux.HandleFunc("POST /share", MetricsMiddleware(s.shareHandler.HandleGenerate, "share"))
	mux.HandleFunc("GET /share/image.png", MetricsMiddleware(s.shareHandler.HandleImage, "share_image"))
	mux.HandleFunc("POST /share/download", MetricsMiddleware(s.shareHandler.HandleDownload, "share_download"))
	mux.HandleFunc("POST /share/clipboard", MetricsMiddleware(s.shareHandler.HandleClipboard, "share_clipboard"))
}

// BoardView is the read shape of GET /board.
type BoardView = types.BoardView

// EntrySpec is the read shape of an added or rendered entry.
type EntrySpec = render.Spec

// Target mirrors the drop target schema.
type Target = placement.Target

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// responder writes error envelopes and logs server-side failures.
type responder struct {
	logger logger.Logger
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		rs.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: message(err)})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(op string, r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

// confirmed reads the confirm query parameter. Absent means no.
func confirmed(op string, r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("confirm")
	if raw == "" {
		return false, nil
	}
	ok, err := strconv.ParseBool(raw)
	if err != nil {
		return false, WrapKind(op, ErrBadRequest, fmt.Errorf("confirm: %w", err))
	}
	return ok, nil
}
