package viewlog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/auth"
)

// Handler exposes view-activation endpoints.
type Handler struct {
	service *Service
}

// NewHTTPHandler wires the view-activation HTTP surface.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleRecord(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type activationPayload struct {
	ProjectID   string `json:"projectId"`
	ViewName    string `json:"viewName"`
	ViewKind    string `json:"viewKind"`
	ActivatedBy string `json:"activatedBy"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload activationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	projectID, err := uuid.Parse(strings.TrimSpace(payload.ProjectID))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid projectId: %v", err), http.StatusBadRequest)
		return
	}
	activatedBy := strings.TrimSpace(payload.ActivatedBy)
	if activatedBy == "" {
		if user, ok := auth.UserFromContext(r.Context()); ok {
			activatedBy = user
		}
	}
	activation, err := h.service.Record(r.Context(), projectID, payload.ViewName, payload.ViewKind, activatedBy)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, activation)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("projectId"))
	if raw == "" {
		http.Error(w, "projectId is required", http.StatusBadRequest)
		return
	}
	projectID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid projectId: %v", err), http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	activations, err := h.service.List(r.Context(), projectID, limit, offset)
	if err != nil {
		http.Error(w, fmt.Sprintf("list view activations: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, activations)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
