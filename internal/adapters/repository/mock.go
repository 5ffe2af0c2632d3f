package repository

import (
	"context"
	"photodrop/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockArtifactRepository struct {
	mock.Mock
}

func NewMockArtifactRepository() *MockArtifactRepository {
	return &MockArtifactRepository{}
}

func (m *MockArtifactRepository) Create(ctx context.Context, artifact domain.Artifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) FindByPath(ctx context.Context, path domain.ArtifactPath) (*domain.Artifact, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

func NewMockImageRepository() *MockImageRepository {
	return &MockImageRepository{}
}

func (m *MockImageRepository) Create(ctx context.Context, image domain.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Image, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

func (m *MockImageRepository) FindByArtifactID(ctx context.Context, artifactID uuid.UUID) (*domain.Image, error) {
	args := m.Called(ctx, artifactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

type MockPhotoRepository struct {
	mock.Mock
}

func NewMockPhotoRepository() *MockPhotoRepository {
	return &MockPhotoRepository{}
}

func (m *MockPhotoRepository) Create(ctx context.Context, photo domain.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *MockPhotoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photo), args.Error(1)
}

func (m *MockPhotoRepository) UpdateGroup(ctx context.Context, photoID, groupID uuid.UUID) error {
	args := m.Called(ctx, photoID, groupID)
	return args.Error(0)
}

type MockPhotoGroupRepository struct {
	mock.Mock
}

func NewMockPhotoGroupRepository() *MockPhotoGroupRepository {
	return &MockPhotoGroupRepository{}
}

func (m *MockPhotoGroupRepository) Create(ctx context.Context, group domain.PhotoGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockPhotoGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PhotoGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PhotoGroup), args.Error(1)
}

func (m *MockPhotoGroupRepository) FindByOwner(ctx context.Context, owner uuid.UUID) ([]domain.PhotoGroup, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PhotoGroup), args.Error(1)
}
