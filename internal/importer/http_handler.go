package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ccisvision/vision/internal/auth"
	"github.com/ccisvision/vision/internal/domain"
	"github.com/ccisvision/vision/internal/excel"

	"github.com/google/uuid"
)

// Handler exposes the import pipeline over HTTP.
type Handler struct {
	service        *Service
	maxUploadBytes int64
}

// NewHTTPHandler wraps the service with the /api/excel endpoints.
func NewHTTPHandler(service *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

// Register mounts the import routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/excel/upload", h.handleUpload)
	mux.HandleFunc("POST /api/excel/{importId}/validate", h.handleValidate)
	mux.HandleFunc("POST /api/excel/{importId}/process", h.handleProcess)
	mux.HandleFunc("GET /api/excel/history", h.handleHistory)
	mux.HandleFunc("GET /api/excel/template", h.handleTemplate)
	mux.HandleFunc("GET /api/excel/{importId}", h.handleDetail)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	entityType, err := domain.ParseEntityType(strings.TrimSpace(r.FormValue("entity_type")))
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	table, err := excel.Parse(header.Filename, payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Stage(r.Context(), entityType, header.Filename, table.Rows, auth.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	importID, err := parseImportID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.service.Validate(r.Context(), importID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	importID, err := parseImportID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.service.Process(r.Context(), importID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := h.service.History(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	importID, err := parseImportID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	detail, err := h.service.Detail(r.Context(), importID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	entityType, err := domain.ParseEntityType(strings.TrimSpace(r.URL.Query().Get("entity_type")))
	if err != nil {
		writeError(w, err)
		return
	}

	headers, err := h.service.TemplateHeaders(entityType)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := excel.Template(string(entityType), headers)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_template.xlsx", entityType))
	_, _ = w.Write(payload)
}

func parseImportID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("importId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid import id %q", raw)
	}
	return id, nil
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyFile),
		errors.Is(err, domain.ErrInvalidEntityType),
		errors.Is(err, domain.ErrAlreadyProcessed),
		errors.Is(err, excel.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
