// Package repository holds the metadata repositories: the postgres
// implementations in the postgres subpackage and the in-memory and testify
// doubles used by service tests.
package repository

import (
	"context"
	"sync"

	"photodrop/internal/core/domain"

	"github.com/google/uuid"
)

// MemoryArtifactRepository is an in-memory ArtifactRepository
type MemoryArtifactRepository struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]domain.Artifact
	byPath  map[domain.ArtifactPath]uuid.UUID
	creates int

	// BeforeCreate, when set, runs before each Create and may veto it.
	BeforeCreate func(artifact domain.Artifact) error
}

// NewMemoryArtifactRepository creates an empty MemoryArtifactRepository
func NewMemoryArtifactRepository() *MemoryArtifactRepository {
	return &MemoryArtifactRepository{
		byID:   make(map[uuid.UUID]domain.Artifact),
		byPath: make(map[domain.ArtifactPath]uuid.UUID),
	}
}

func (r *MemoryArtifactRepository) Create(_ context.Context, artifact domain.Artifact) error {
	if r.BeforeCreate != nil {
		if err := r.BeforeCreate(artifact); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	r.byID[artifact.ID] = artifact
	r.byPath[artifact.Path] = artifact.ID
	return nil
}

func (r *MemoryArtifactRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	artifact, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return &artifact, nil
}

func (r *MemoryArtifactRepository) FindByPath(_ context.Context, path domain.ArtifactPath) (*domain.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPath[path]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	artifact := r.byID[id]
	return &artifact, nil
}

// Len returns the number of stored artifact records
func (r *MemoryArtifactRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// MemoryImageRepository is an in-memory ImageRepository
type MemoryImageRepository struct {
	mu         sync.Mutex
	byID       map[uuid.UUID]domain.Image
	byArtifact map[uuid.UUID]uuid.UUID

	// BeforeCreate, when set, runs before each Create and may veto it.
	// Tests use it to skew per-photo timing and to inject failures.
	BeforeCreate func(image domain.Image) error
}

// NewMemoryImageRepository creates an empty MemoryImageRepository
func NewMemoryImageRepository() *MemoryImageRepository {
	return &MemoryImageRepository{
		byID:       make(map[uuid.UUID]domain.Image),
		byArtifact: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *MemoryImageRepository) Create(_ context.Context, image domain.Image) error {
	if r.BeforeCreate != nil {
		if err := r.BeforeCreate(image); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[image.ID] = image
	r.byArtifact[image.ArtifactID] = image.ID
	return nil
}

func (r *MemoryImageRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	image, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	return &image, nil
}

func (r *MemoryImageRepository) FindByArtifactID(_ context.Context, artifactID uuid.UUID) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byArtifact[artifactID]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	image := r.byID[id]
	return &image, nil
}

// Len returns the number of stored image records
func (r *MemoryImageRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// MemoryPhotoRepository is an in-memory PhotoRepository
type MemoryPhotoRepository struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Photo

	// BeforeUpdateGroup, when set, runs before each UpdateGroup and may
	// veto it. Tests use it to observe and break the back-reference patch.
	BeforeUpdateGroup func(photoID, groupID uuid.UUID) error
}

// NewMemoryPhotoRepository creates an empty MemoryPhotoRepository
func NewMemoryPhotoRepository() *MemoryPhotoRepository {
	return &MemoryPhotoRepository{byID: make(map[uuid.UUID]domain.Photo)}
}

func (r *MemoryPhotoRepository) Create(_ context.Context, photo domain.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[photo.ID] = photo
	return nil
}

func (r *MemoryPhotoRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	photo, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPhotoNotFound
	}
	return &photo, nil
}

func (r *MemoryPhotoRepository) UpdateGroup(_ context.Context, photoID, groupID uuid.UUID) error {
	if r.BeforeUpdateGroup != nil {
		if err := r.BeforeUpdateGroup(photoID, groupID); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	photo, ok := r.byID[photoID]
	if !ok {
		return domain.ErrPhotoNotFound
	}
	photo.GroupID = groupID
	r.byID[photoID] = photo
	return nil
}

// Len returns the number of stored photo records
func (r *MemoryPhotoRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// MemoryPhotoGroupRepository is an in-memory PhotoGroupRepository
type MemoryPhotoGroupRepository struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.PhotoGroup

	// AfterCreate, when set, runs right after a group record is stored.
	// Tests use it to observe the window before back-references are
	// patched.
	AfterCreate func(group domain.PhotoGroup)
}

// NewMemoryPhotoGroupRepository creates an empty MemoryPhotoGroupRepository
func NewMemoryPhotoGroupRepository() *MemoryPhotoGroupRepository {
	return &MemoryPhotoGroupRepository{byID: make(map[uuid.UUID]domain.PhotoGroup)}
}

func (r *MemoryPhotoGroupRepository) Create(_ context.Context, group domain.PhotoGroup) error {
	r.mu.Lock()
	r.byID[group.ID] = group
	r.mu.Unlock()
	if r.AfterCreate != nil {
		r.AfterCreate(group)
	}
	return nil
}

func (r *MemoryPhotoGroupRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.PhotoGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	group, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPhotoGroupNotFound
	}
	return &group, nil
}

// Len returns the number of stored group records
func (r *MemoryPhotoGroupRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *MemoryPhotoGroupRepository) FindByOwner(_ context.Context, owner uuid.UUID) ([]domain.PhotoGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var groups []domain.PhotoGroup
	for _, group := range r.byID {
		if group.Owner == owner {
			groups = append(groups, group)
		}
	}
	return groups, nil
}
