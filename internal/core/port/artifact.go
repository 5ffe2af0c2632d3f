package port

import (
	"context"
	"photodrop/internal/belt"
	"photodrop/internal/core/domain"

	"github.com/google/uuid"
)

// ArtifactStore is an interface to define content-addressed blob
// storage with metadata. Writes always compress; reads return the bytes
// still compressed, tagged with the codec, so HTTP handlers can pass them
// through without a decompress/recompress cycle.
type ArtifactStore interface {
	// Create drains data into storage under a fresh random path and
	// persists an artifact record for it.
	Create(ctx context.Context, data *belt.Belt, originator uuid.UUID, statedMimeType string) (*domain.Artifact, error)
	// ReadByID returns the stored bytes of an existing artifact, tagged
	// with their compression.
	ReadByID(ctx context.Context, id uuid.UUID) (*belt.Belt, error)
	// FetchByID resolves an artifact record without touching storage.
	FetchByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error)
	// FetchByPath resolves an artifact record by its storage path.
	FetchByPath(ctx context.Context, path domain.ArtifactPath) (*domain.Artifact, error)
}
