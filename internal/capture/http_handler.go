package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/auth"
	"github.com/paramtrail/paramtrail/internal/domain"
)

// Handler exposes capture and project endpoints.
type Handler struct {
	service *Service
}

// NewHTTPHandler wires the capture HTTP surface.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/projects"):
		h.handleCreateProject(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/projects"):
		h.handleListProjects(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/versions/exists"):
		h.handleVersionExists(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/versions"):
		h.handleListVersions(w, r)
	case r.Method == http.MethodPost:
		h.handleCapture(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type capturePayload struct {
	ProjectID    string               `json:"projectId"`
	VersionLabel string               `json:"versionLabel"`
	CapturedBy   string               `json:"capturedBy"`
	Official     bool                 `json:"official"`
	Entities     []domain.EntityState `json:"entities"`
}

type projectPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleCapture(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload capturePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	projectID, err := uuid.Parse(strings.TrimSpace(payload.ProjectID))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid projectId: %v", err), http.StatusBadRequest)
		return
	}
	capturedBy := strings.TrimSpace(payload.CapturedBy)
	if capturedBy == "" {
		if user, ok := auth.UserFromContext(r.Context()); ok {
			capturedBy = user
		}
	}
	result, err := h.service.Capture(r.Context(), Request{
		ProjectID:    projectID,
		VersionLabel: payload.VersionLabel,
		CapturedBy:   capturedBy,
		Official:     payload.Official,
		Entities:     payload.Entities,
	})
	if err != nil {
		http.Error(w, err.Error(), captureStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload projectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	project, err := h.service.RegisterProject(r.Context(), payload.Name, payload.Description)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("list projects: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) handleListVersions(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseProjectID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	versions, err := h.service.ListVersions(r.Context(), projectID)
	if err != nil {
		http.Error(w, fmt.Sprintf("list versions: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *Handler) handleVersionExists(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseProjectID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	label := strings.TrimSpace(r.URL.Query().Get("label"))
	exists, err := h.service.VersionExists(r.Context(), projectID, label)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func captureStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrVersionExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidVersionLabel),
		errors.Is(err, domain.ErrDuplicateTrackID),
		errors.Is(err, domain.ErrMissingTrackID),
		errors.Is(err, domain.ErrUnknownEntityKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseProjectID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("projectId"))
	if raw == "" {
		return uuid.Nil, errors.New("projectId is required")
	}
	projectID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid projectId: %v", err)
	}
	return projectID, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
