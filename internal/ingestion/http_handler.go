package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
)

// Handler exposes ingestion as an HTTP endpoint.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a POST endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	projectIDRaw := strings.TrimSpace(r.FormValue("projectId"))
	projectID, err := uuid.Parse(projectIDRaw)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid project id: %v", err), http.StatusBadRequest)
		return
	}

	versionLabel := strings.TrimSpace(r.FormValue("versionLabel"))
	capturedBy := strings.TrimSpace(r.FormValue("capturedBy"))
	official, _ := strconv.ParseBool(r.FormValue("official"))
	kind := domain.EntityKind(strings.ToUpper(strings.TrimSpace(r.FormValue("kind"))))

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	req := Request{
		ProjectID:    projectID,
		VersionLabel: versionLabel,
		CapturedBy:   capturedBy,
		Official:     official,
		Kind:         kind,
		FileName:     header.Filename,
		Data:         bytes.NewReader(data),
	}

	summary, err := h.service.Ingest(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), ingestStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func ingestStatus(err error) int {
	if errors.Is(err, domain.ErrVersionExists) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
