package photogroup

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"photodrop/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// V1PhotoGroupResponse is the response to get photo group
type V1PhotoGroupResponse struct {
	ID         uuid.UUID   `json:"id"`
	Owner      uuid.UUID   `json:"owner"`
	PhotoIDs   []uuid.UUID `json:"photo_ids"`
	Status     string      `json:"status"`
	PriceCents int64       `json:"price_cents"`
	CreatedAt  time.Time   `json:"created_at"`
}

func toGroupResponse(group domain.PhotoGroup) V1PhotoGroupResponse {
	return V1PhotoGroupResponse{
		ID:         group.ID,
		Owner:      group.Owner,
		PhotoIDs:   group.Photos,
		Status:     string(group.Status),
		PriceCents: group.UsageRightsPriceCents,
		CreatedAt:  group.CreatedAt,
	}
}

// GetPhotoGroupV1 is the function that handles get photo group
func (h *HandlerV1) GetPhotoGroupV1(w http.ResponseWriter, r *http.Request) {

	groupID := chi.URLParam(r, "groupID")
	uuidGroupID, parseErr := uuid.Parse(groupID)
	if parseErr != nil {
		http.Error(w, parseErr.Error(), http.StatusBadRequest)
		return
	}

	group, err := h.ingestService.FetchPhotoGroup(r.Context(), uuidGroupID)
	switch {
	case errors.Is(err, domain.ErrPhotoGroupNotFound):
		http.Error(w, "photo group not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error getting photo group", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toGroupResponse(*group)); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

// ListMyPhotoGroupsV1 is the function that lists the caller's photo groups
func (h *HandlerV1) ListMyPhotoGroupsV1(w http.ResponseWriter, r *http.Request) {

	owner, err := ownerFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	groups, err := h.ingestService.FetchPhotoGroupsByOwner(r.Context(), owner)
	if err != nil {
		h.logger.Error("error listing photo groups", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := make([]V1PhotoGroupResponse, 0, len(groups))
	for _, group := range groups {
		resp = append(resp, toGroupResponse(group))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
