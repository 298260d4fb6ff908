package api

import (
	"context"
	"net/http"
)

// BoardDependencies defines the board-wide operations.
type BoardDependencies interface {
	Board(ctx context.Context) (BoardView, error)
	ToggleDeleteMode(ctx context.Context) (bool, error)
	ClearTiers(ctx context.Context, confirm bool) (int, bool, error)
	Reset(ctx context.Context, confirm bool) (bool, error)
}

// BoardHandler serves the board and its bulk actions.
type BoardHandler struct {
	deps BoardDependencies
	r    responder
}

type deleteModeResponse struct {
	DeleteMode bool `json:"delete_mode"`
}

type clearResponse struct {
	Cleared bool `json:"cleared"`
	Moved   int  `json:"moved"`
}

type resetResponse struct {
	Reset bool `json:"reset"`
}

// HandleGetBoard handles GET /board.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Board(r.Context())
	if err != nil {
		h.r.fail(w, r, Wrap("api.get_board", err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleToggleDeleteMode handles POST /delete-mode.
func (h *BoardHandler) HandleToggleDeleteMode(w http.ResponseWriter, r *http.Request) {
	on, err := h.deps.ToggleDeleteMode(r.Context())
	if err != nil {
		h.r.fail(w, r, Wrap("api.toggle_delete_mode", err))
		return
	}
	writeJSON(w, http.StatusOK, deleteModeResponse{DeleteMode: on})
}

// HandleClear handles POST /clear?confirm=true.
func (h *BoardHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	const op = "api.clear"
	ok, err := confirmed(op, r)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	moved, done, err := h.deps.ClearTiers(r.Context(), ok)
	if err != nil {
		h.r.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Cleared: done, Moved: moved})
}

// HandleReset handles POST /reset?confirm=true.
func (h *BoardHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset"
	ok, err := confirmed(op, r)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	done, err := h.deps.Reset(r.Context(), ok)
	if err != nil {
		h.r.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{Reset: done})
}
