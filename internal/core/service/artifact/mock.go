package artifact

import (
	"context"

	"photodrop/internal/belt"
	"photodrop/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockArtifactStore is a mock implementation of ArtifactStore
type MockArtifactStore struct {
	mock.Mock
}

// NewMockArtifactStore creates a new MockArtifactStore
func NewMockArtifactStore() *MockArtifactStore {
	return &MockArtifactStore{}
}

func (m *MockArtifactStore) Create(ctx context.Context, data *belt.Belt, originator uuid.UUID, statedMimeType string) (*domain.Artifact, error) {
	args := m.Called(ctx, data, originator, statedMimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactStore) ReadByID(ctx context.Context, id uuid.UUID) (*belt.Belt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*belt.Belt), args.Error(1)
}

func (m *MockArtifactStore) FetchByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactStore) FetchByPath(ctx context.Context, path domain.ArtifactPath) (*domain.Artifact, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}
