package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// EntryDependencies defines the per-entry operations.
type EntryDependencies interface {
	AddPerson(ctx context.Context, name string) (EntrySpec, error)
	AddEthosUser(ctx context.Context, username string) (EntrySpec, error)
	Delete(ctx context.Context, identifier string, confirm bool) (bool, error)
	RenderEntry(ctx context.Context, identifier string) (EntrySpec, string, error)
}

// EntryHandler adds, removes and renders entries.
type EntryHandler struct {
	deps EntryDependencies
	r    responder
}

type addPersonRequest struct {
	Name string `json:"name"`
}

type addEthosRequest struct {
	Username string `json:"username"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

// HandleAddPerson handles POST /entries.
func (h *EntryHandler) HandleAddPerson(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_person"
	var req addPersonRequest
	if err := decode(op, r, &req); err != nil {
		h.r.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.r.fail(w, r, WrapKind(op, ErrBadRequest, errors.New("missing name")))
		return
	}
	spec, err := h.deps.AddPerson(r.Context(), req.Name)
	if err != nil {
		h.r.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, spec)
}

// HandleAddEthosUser handles POST /entries/ethos.
func (h *EntryHandler) HandleAddEthosUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_ethos_user"
	var req addEthosRequest
	if err := decode(op, r, &req); err != nil {
		h.r.fail(w, r, err)
		return
	}
	spec, err := h.deps.AddEthosUser(r.Context(), req.Username)
	if err != nil {
		h.r.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, spec)
}

// HandleDelete handles DELETE /entries/{id}?confirm=true.
func (h *EntryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_entry"
	ok, err := confirmed(op, r)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	deleted, err := h.deps.Delete(r.Context(), r.PathValue("id"), ok)
	if err != nil {
		h.r.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: deleted})
}

// HandleRender handles GET /entries/{id}/render and returns an HTML fragment.
func (h *EntryHandler) HandleRender(w http.ResponseWriter, r *http.Request) {
	_, fragment, err := h.deps.RenderEntry(r.Context(), r.PathValue("id"))
	if err != nil {
		h.r.fail(w, r, Wrap("api.render_entry", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(fragment))
}
