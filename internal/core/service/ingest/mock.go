package ingest

import (
	"context"

	"photodrop/internal/core/domain"
	"photodrop/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIngestService is a mock implementation of IngestService
type MockIngestService struct {
	mock.Mock
}

// NewMockIngestService creates a new MockIngestService
func NewMockIngestService() *MockIngestService {
	return &MockIngestService{}
}

func (m *MockIngestService) UploadPhotoGroup(ctx context.Context, owner uuid.UUID, params port.UploadPhotoGroupParams) (*domain.PhotoGroup, error) {
	args := m.Called(ctx, owner, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PhotoGroup), args.Error(1)
}

func (m *MockIngestService) CreateImageFromArtifact(ctx context.Context, artifactID uuid.UUID) (*domain.Image, error) {
	args := m.Called(ctx, artifactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

func (m *MockIngestService) FetchPhotoThumbnail(ctx context.Context, photoID uuid.UUID) (*port.ThumbnailPayload, error) {
	args := m.Called(ctx, photoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ThumbnailPayload), args.Error(1)
}

func (m *MockIngestService) FetchPhotoGroup(ctx context.Context, groupID uuid.UUID) (*domain.PhotoGroup, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PhotoGroup), args.Error(1)
}

func (m *MockIngestService) FetchPhotoGroupsByOwner(ctx context.Context, owner uuid.UUID) ([]domain.PhotoGroup, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PhotoGroup), args.Error(1)
}
