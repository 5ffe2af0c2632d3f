package photogroup

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"photodrop/internal/core/domain"
	"photodrop/internal/core/port"

	"github.com/google/uuid"
)

// maxUploadMemory is how much of a multipart body is held in memory before
// spilling to temp files.
const maxUploadMemory = 32 << 20

// V1UploadPhotoGroupResponse is the response to a photo group upload
type V1UploadPhotoGroupResponse struct {
	ID         uuid.UUID   `json:"id"`
	PhotoIDs   []uuid.UUID `json:"photo_ids"`
	Status     string      `json:"status"`
	PriceCents int64       `json:"price_cents"`
	CreatedAt  time.Time   `json:"created_at"`
}

// UploadPhotoGroupV1 is the function that handles a photo group upload. It
// expects a multipart form with the photos under "photos", in the order the
// group should keep, plus "status" and "price_cents" fields. The uploader
// comes from the X-User-ID header.
func (h *HandlerV1) UploadPhotoGroupV1(w http.ResponseWriter, r *http.Request) {

	owner, err := ownerFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	priceCents, err := strconv.ParseInt(r.FormValue("price_cents"), 10, 64)
	if err != nil {
		http.Error(w, "price_cents is required", http.StatusBadRequest)
		return
	}

	status := domain.PhotoGroupStatus(r.FormValue("status"))
	switch status {
	case domain.PhotoGroupStatusPublic, domain.PhotoGroupStatusPrivate:
	default:
		http.Error(w, "status must be public or private", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["photos"]
	payloads := make([][]byte, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			http.Error(w, "unreadable multipart part", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "unreadable multipart part", http.StatusBadRequest)
			return
		}
		payloads = append(payloads, data)
	}

	params := port.UploadPhotoGroupParams{
		Payloads:              payloads,
		Status:                status,
		UsageRightsPriceCents: priceCents,
	}

	group, err := h.ingestService.UploadPhotoGroup(r.Context(), owner, params)
	switch {
	case errors.Is(err, domain.ErrNoPhotos),
		errors.Is(err, domain.ErrTooManyPhotos),
		errors.Is(err, domain.ErrPriceTooLow),
		errors.Is(err, domain.ErrInvalidImage):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrPhotoTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	case err != nil:
		h.logger.Error("error uploading photo group", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := V1UploadPhotoGroupResponse{
		ID:         group.ID,
		PhotoIDs:   group.Photos,
		Status:     string(group.Status),
		PriceCents: group.UsageRightsPriceCents,
		CreatedAt:  group.CreatedAt,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func ownerFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return uuid.Nil, errors.New("X-User-ID header is required")
	}
	owner, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("X-User-ID header is not a valid uuid")
	}
	return owner, nil
}
