package photo

import (
	"log/slog"
	"photodrop/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 photo routes
type HandlerV1 struct {
	ingestService port.IngestService
	logger        *slog.Logger
}

// NewPhotoHandlerV1 creates HandlerV1
func NewPhotoHandlerV1(service port.IngestService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		ingestService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{photoID}/thumbnail", h.GetThumbnailV1)

	return router
}
