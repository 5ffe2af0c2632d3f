package port

import (
	"context"
	"photodrop/internal/belt"
	"photodrop/internal/core/domain"

	"github.com/google/uuid"
)

// UploadPhotoGroupParams carries one upload batch through the ingestion
// pipeline. Payloads keeps the order the client sent; that order is
// preserved in the resulting group.
type UploadPhotoGroupParams struct {
	Payloads              [][]byte
	Status                domain.PhotoGroupStatus
	UsageRightsPriceCents int64
}

// ThumbnailPayload is a thumbnail's stored bytes plus the artifact record
// needed to negotiate the response encoding.
type ThumbnailPayload struct {
	Data     *belt.Belt
	Artifact *domain.Artifact
}

// IngestService is an interface to define the photo ingestion pipeline
type IngestService interface {
	// UploadPhotoGroup validates, decodes and ingests a batch of photos
	// and assembles them into a new photo group owned by owner.
	UploadPhotoGroup(ctx context.Context, owner uuid.UUID, params UploadPhotoGroupParams) (*domain.PhotoGroup, error)
	// CreateImageFromArtifact derives an image record, dimensions and tiny
	// preview included, from an already stored artifact.
	CreateImageFromArtifact(ctx context.Context, artifactID uuid.UUID) (*domain.Image, error)
	// FetchPhotoThumbnail resolves a photo's public thumbnail bytes.
	FetchPhotoThumbnail(ctx context.Context, photoID uuid.UUID) (*ThumbnailPayload, error)
	// FetchPhotoGroup resolves a photo group by ID.
	FetchPhotoGroup(ctx context.Context, groupID uuid.UUID) (*domain.PhotoGroup, error)
	// FetchPhotoGroupsByOwner lists the groups owned by owner.
	FetchPhotoGroupsByOwner(ctx context.Context, owner uuid.UUID) ([]domain.PhotoGroup, error)
}
