package photogroup

import (
	"log/slog"
	"photodrop/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 photo group routes
type HandlerV1 struct {
	ingestService port.IngestService
	logger        *slog.Logger
}

// NewPhotoGroupHandlerV1 creates HandlerV1
func NewPhotoGroupHandlerV1(service port.IngestService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		ingestService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/upload", h.UploadPhotoGroupV1)
	router.Get("/mine", h.ListMyPhotoGroupsV1)
	router.Get("/{groupID}", h.GetPhotoGroupV1)

	return router
}
