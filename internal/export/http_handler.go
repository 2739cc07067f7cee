package export

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Handler exposes the registry export over HTTP.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the export service.
func NewHTTPHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the export route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/organizations/export", h.handleExport)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(strings.TrimSpace(r.URL.Query().Get("format")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, contentType, err := h.service.Organizations(r.Context(), format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("entreprises_%s.%s", time.Now().Format("2006-01-02"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	_, _ = w.Write(payload)
}
