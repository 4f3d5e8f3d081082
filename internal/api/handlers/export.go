package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/hooplog/internal/api/response"
	"github.com/ramonehamilton/hooplog/internal/export"
	"github.com/ramonehamilton/hooplog/internal/gui"
)

// ExportHandler serves journal downloads.
type ExportHandler struct {
	base
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(services *gui.Services) *ExportHandler {
	return &ExportHandler{base: base{services: services}}
}

// GetExport sends the caller's events, sheets or goals as an attachment.
// The format query is csv (default) or json.
func (h *ExportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	kind, err := export.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.FieldError(w, gui.InvalidInputMessage, "kind")
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.FieldError(w, gui.InvalidInputMessage, "format")
		return
	}

	// Buffered so a failed export still gets a JSON error.
	var buf bytes.Buffer
	if err := gui.NewExportFacade(h.scoped(r)).Export(r.Context(), &buf, kind, format); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(kind, format, time.Now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
