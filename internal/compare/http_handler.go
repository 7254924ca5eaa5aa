package compare

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
	"github.com/paramtrail/paramtrail/internal/repository"
)

// Handler exposes comparison, history and restore-plan endpoints.
type Handler struct {
	service   *Service
	snapshots repository.SnapshotRepository
}

// NewHTTPHandler wires the comparison HTTP surface.
func NewHTTPHandler(service *Service, snapshots repository.SnapshotRepository) http.Handler {
	return &Handler{service: service, snapshots: snapshots}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/history"):
		h.handleHistory(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/live"):
		h.handleCompareLive(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/restore-plan"):
		h.handleRestorePlan(w, r)
	case r.Method == http.MethodGet:
		h.handleCompareVersions(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type compareLivePayload struct {
	ProjectID string               `json:"projectId"`
	Base      string               `json:"base"`
	Entities  []domain.EntityState `json:"entities"`
}

type restorePlanPayload struct {
	ProjectID    string             `json:"projectId"`
	VersionLabel string             `json:"versionLabel"`
	Entity       domain.EntityState `json:"entity"`
}

func (h *Handler) handleCompareVersions(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseProjectID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	base := strings.TrimSpace(r.URL.Query().Get("base"))
	target := strings.TrimSpace(r.URL.Query().Get("target"))
	changeSet, err := h.service.CompareVersions(r.Context(), projectID, base, target)
	if err != nil {
		http.Error(w, err.Error(), compareStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, changeSet)
}

func (h *Handler) handleCompareLive(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload compareLivePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	projectID, err := uuid.Parse(strings.TrimSpace(payload.ProjectID))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid projectId: %v", err), http.StatusBadRequest)
		return
	}
	changeSet, err := h.service.CompareWithLive(r.Context(), projectID, payload.Base, payload.Entities)
	if err != nil {
		http.Error(w, err.Error(), compareStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, changeSet)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseProjectID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	trackID := strings.TrimSpace(r.URL.Query().Get("trackId"))
	history, err := h.service.History(r.Context(), projectID, trackID)
	if err != nil {
		http.Error(w, err.Error(), compareStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) handleRestorePlan(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload restorePlanPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	projectID, err := uuid.Parse(strings.TrimSpace(payload.ProjectID))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid projectId: %v", err), http.StatusBadRequest)
		return
	}
	snapshot, err := h.snapshots.Get(r.Context(), projectID, payload.VersionLabel, payload.Entity.TrackID)
	if err != nil {
		http.Error(w, err.Error(), compareStatus(err))
		return
	}
	plan, err := BuildRestorePlan(snapshot, payload.Entity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func compareStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidVersionLabel),
		errors.Is(err, domain.ErrMissingTrackID),
		errors.Is(err, domain.ErrDuplicateTrackID),
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
