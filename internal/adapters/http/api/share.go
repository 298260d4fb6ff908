package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/tierlist/internal/domain/types"
)

// ShareDependencies defines the image export operations.
type ShareDependencies interface {
	Export(ctx context.Context) (types.Share, error)
	Image() (types.Share, error)
	Download(ctx context.Context) (string, error)
	CopyToClipboard(ctx context.Context) error
}

// ShareHandler generates the board image and hands it out.
type ShareHandler struct {
	deps ShareDependencies
	r    responder
}

type downloadResponse struct {
	Filename string `json:"filename"`
}

// HandleGenerate handles POST /share.
func (h *ShareHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	sh, err := h.deps.Export(r.Context())
	if err != nil {
		h.r.fail(w, r, Wrap("api.share", err))
		return
	}
	writeJSON(w, http.StatusCreated, sh)
}

// HandleImage handles GET /share/image.png and serves the last image as an
// attachment.
func (h *ShareHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	sh, err := h.deps.Image()
	if err != nil {
		h.r.fail(w, r, Wrap("api.share_image", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(sh.PNG)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sh.Filename))
	_, _ = w.Write(sh.PNG)
}

// HandleDownload handles POST /share/download, which saves the image on
// the server side.
func (h *ShareHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	name, err := h.deps.Download(r.Context())
	if err != nil {
		h.r.fail(w, r, Wrap("api.share_download", err))
		return
	}
	writeJSON(w, http.StatusOK, downloadResponse{Filename: name})
}

// HandleClipboard handles POST /share/clipboard.
func (h *ShareHandler) HandleClipboard(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.CopyToClipboard(r.Context()); err != nil {
		h.r.fail(w, r, Wrap("api.share_clipboard", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
