package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/tierlist/internal/domain/placement"
)

// DragDependencies defines the drag gesture operations.
type DragDependencies interface {
	BeginDrag(ctx context.Context, identifier string) (placement.Session, error)
	EndDrag(ctx context.Context) error
	DragEnter(ctx context.Context, containerID string) (bool, error)
	DragLeave(ctx context.Context, containerID string, related Target) (bool, error)
	Drop(ctx context.Context, target Target) (placement.DropResult, error)
}

// DragHandler relays pointer gestures from the page to the placement engine.
type DragHandler struct {
	deps DragDependencies
	r    responder
}

type dragStartRequest struct {
	Identifier string `json:"identifier"`
}

type dragZoneRequest struct {
	ContainerID string `json:"container_id"`
	Related     Target `json:"related"`
}

type highlightResponse struct {
	Changed bool `json:"changed"`
}

// HandleStart handles POST /drag/start.
func (h *DragHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.drag_start"
	var req dragStartRequest
	if err := decode(op, r, &req); err != nil {
		h.r.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Identifier) == "" {
		h.r.fail(w, r, WrapKind(op, ErrBadRequest, errors.New("missing identifier")))
		return
	}
	sess, err := h.deps.BeginDrag(r.Context(), req.Identifier)
	if err != nil {
		h.r.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// HandleEnd handles POST /drag/end.
func (h *DragHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.EndDrag(r.Context()); err != nil {
		h.r.fail(w, r, Wrap("api.drag_end", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEnter handles POST /drag/enter.
func (h *DragHandler) HandleEnter(w http.ResponseWriter, r *http.Request) {
	const op = "api.drag_enter"
	var req dragZoneRequest
	if err := decode(op, r, &req); err != nil {
		h.r.fail(w, r, err)
		return
	}
	ok, err := h.deps.DragEnter(r.Context(), req.ContainerID)
	if err != nil {
		h.r.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, highlightResponse{Changed: ok})
}

// HandleLeave handles POST /drag/leave.
func (h *DragHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	const op = "api.drag_leave"
	var req dragZoneRequest
	if err := decode(op, r, &req); err != nil {
		h.r.fail(w, r, err)
		return
	}
	ok, err := h.deps.DragLeave(r.Context(), req.ContainerID, req.Related)
	if err != nil {
		h.r.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, highlightResponse{Changed: ok})
}

// HandleDrop handles POST /drop. The body names the container or the entry
// under the pointer.
func (h *DragHandler) HandleDrop(w http.ResponseWriter, r *http.Request) {
	const op = "api.drop"
	var target Target
	if err := decode(op, r, &target); err != nil {
		h.r.fail(w, r, err)
		return
	}
	res, err := h.deps.Drop(r.Context(), target)
	if err != nil {
		h.r.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
