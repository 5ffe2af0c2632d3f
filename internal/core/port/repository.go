package port

import (
	"context"
	"photodrop/internal/core/domain"

	"github.com/google/uuid"
)

// ArtifactRepository is an interface to define artifact metadata
// interactions. Private and public artifacts live in separate tables, so
// each store flavor gets its own repository instance.
type ArtifactRepository interface {
	Create(ctx context.Context, artifact domain.Artifact) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error)
	FindByPath(ctx context.Context, path domain.ArtifactPath) (*domain.Artifact, error)
}

// ImageRepository is an interface to define image metadata interactions
type ImageRepository interface {
	Create(ctx context.Context, image domain.Image) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Image, error)
	FindByArtifactID(ctx context.Context, artifactID uuid.UUID) (*domain.Image, error)
}

// PhotoRepository is an interface to define photo metadata interactions.
// UpdateGroup is the back-reference patch run after the owning group is
// created; it is called exactly once per photo.
type PhotoRepository interface {
	Create(ctx context.Context, photo domain.Photo) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
	UpdateGroup(ctx context.Context, photoID, groupID uuid.UUID) error
}

// PhotoGroupRepository is an interface to define photo group interactions
type PhotoGroupRepository interface {
	Create(ctx context.Context, group domain.PhotoGroup) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PhotoGroup, error)
	FindByOwner(ctx context.Context, owner uuid.UUID) ([]domain.PhotoGroup, error)
}
