package artifact_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"photodrop/internal/adapters/repository"
	"photodrop/internal/adapters/storage"
	"photodrop/internal/belt"
	"photodrop/internal/core/domain"
	"photodrop/internal/core/service/artifact"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestArtifactStore_Create_CompressesAndRecords(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repository.NewMemoryArtifactRepository()
	objects := storage.NewMemoryStorage()
	store := artifact.NewStore(repo, objects, "", testLogger())

	payload := bytes.Repeat([]byte("very compressible payload "), 4096)
	owner := uuid.New()

	// Act
	created, err := store.Create(ctx, belt.FromBytes(payload), owner, "image/jpeg")

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.NotEmpty(t, created.Path)
	assert.Equal(t, owner, created.Originator)
	assert.Equal(t, "image/jpeg", created.StatedMimeType)
	assert.Equal(t, domain.CompressionZstd, created.CompStatus.Algorithm)
	assert.Equal(t, int64(len(payload)), created.CompStatus.UncompressedSize)
	assert.Less(t, created.CompStatus.CompressedSize, created.CompStatus.UncompressedSize)

	stored, ok := objects.Object(string(created.Path))
	require.True(t, ok)
	assert.Equal(t, created.CompStatus.CompressedSize, int64(len(stored)))

	record, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *record)
}

func TestArtifactStore_Create_IdenticalPayloadsGetDistinctPaths(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repository.NewMemoryArtifactRepository()
	objects := storage.NewMemoryStorage()
	store := artifact.NewStore(repo, objects, "", testLogger())
	payload := []byte("same bytes both times")

	// Act
	first, err := store.Create(ctx, belt.FromBytes(payload), uuid.New(), "image/jpeg")
	require.NoError(t, err)
	second, err := store.Create(ctx, belt.FromBytes(payload), uuid.New(), "image/jpeg")
	require.NoError(t, err)

	// Assert
	assert.NotEqual(t, first.Path, second.Path)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, objects.Len())
}

func TestArtifactStore_Create_StorageFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repository.NewMemoryArtifactRepository()
	objects := storage.NewMemoryStorage()
	objects.PutErr = errors.New("bucket unavailable")
	store := artifact.NewStore(repo, objects, "", testLogger())

	// Act
	created, err := store.Create(ctx, belt.FromBytes([]byte("payload")), uuid.New(), "image/jpeg")

	// Assert
	assert.Nil(t, created)
	assert.ErrorIs(t, err, domain.ErrStorageWrite)
	assert.Zero(t, repo.Len())
}

func TestArtifactStore_Create_RecordFailureLeavesOrphanedBlob(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repository.NewMemoryArtifactRepository()
	repo.BeforeCreate = func(domain.Artifact) error { return errors.New("db down") }
	objects := storage.NewMemoryStorage()
	store := artifact.NewStore(repo, objects, "", testLogger())

	// Act
	created, err := store.Create(ctx, belt.FromBytes([]byte("payload")), uuid.New(), "image/jpeg")

	// Assert
	assert.Nil(t, created)
	assert.ErrorIs(t, err, domain.ErrCreateModel)
	assert.Zero(t, repo.Len())
	assert.Equal(t, 1, objects.Len())
}

func TestArtifactStore_Create_WritesBlobBeforeRecord(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repository.NewMockArtifactRepository()
	objects := storage.NewMockObjectStorage()
	store := artifact.NewStore(repo, objects, "", testLogger())
	owner := uuid.New()

	var putKey string
	objects.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			putKey = args.Get(1).(string)
			_, err := io.ReadAll(args.Get(2).(io.Reader))
			require.NoError(t, err)
		}).
		Return(int64(777), nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a domain.Artifact) bool {
		return string(a.Path) == putKey &&
			a.Originator == owner &&
			a.CompStatus.Algorithm == domain.CompressionZstd &&
			a.CompStatus.CompressedSize == 777
	})).Return(nil)

	// Act
	created, err := store.Create(ctx, belt.FromBytes([]byte("payload")), owner, "image/png")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(777), created.CompStatus.CompressedSize)
	objects.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestArtifactStore_Create_AbortedUploadUnwindsStream(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repository.NewMockArtifactRepository()
	objects := storage.NewMockObjectStorage()
	store := artifact.NewStore(repo, objects, "", testLogger())

	// the bucket accepts a little data, then drops the connection
	objects.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = io.ReadFull(args.Get(2).(io.Reader), make([]byte, 1024))
		}).
		Return(int64(0), errors.New("connection reset"))

	w, source := belt.Pipe(1)
	writeErr := make(chan error, 1)
	go func() {
		chunk := bytes.Repeat([]byte("x"), 64*1024)
		for {
			if _, err := w.Write(chunk); err != nil {
				writeErr <- err
				return
			}
		}
	}()

	// Act
	created, err := store.Create(ctx, source, uuid.New(), "image/jpeg")

	// Assert
	assert.Nil(t, created)
	assert.ErrorIs(t, err, domain.ErrStorageWrite)
	assert.Equal(t, belt.ErrClosedPipe, <-writeErr)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArtifactStore_FetchByID_DelegatesToRepository(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repository.NewMockArtifactRepository()
	store := artifact.NewStore(repo, storage.NewMockObjectStorage(), "", testLogger())
	want := &domain.Artifact{ID: uuid.New(), Path: domain.NewArtifactPath()}
	repo.On("FindByID", mock.Anything, want.ID).Return(want, nil)

	// Act
	got, err := store.FetchByID(ctx, want.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestArtifactStore_ReadByID_ReturnsCompressedTaggedBytes(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repository.NewMemoryArtifactRepository()
	objects := storage.NewMemoryStorage()
	store := artifact.NewStore(repo, objects, "", testLogger())

	payload := bytes.Repeat([]byte("payload "), 2048)
	created, err := store.Create(ctx, belt.FromBytes(payload), uuid.New(), "image/jpeg")
	require.NoError(t, err)

	// Act
	data, err := store.ReadByID(ctx, created.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, belt.Zstd, data.Compression())

	plain, err := data.AdaptToNoCompression()
	require.NoError(t, err)
	got, err := plain.Collect()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestArtifactStore_ReadByID_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := artifact.NewStore(repository.NewMemoryArtifactRepository(), storage.NewMemoryStorage(), "", testLogger())

	// Act
	data, err := store.ReadByID(ctx, uuid.New())

	// Assert
	assert.Nil(t, data)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestArtifactStore_ReadByID_SecondReadServedFromCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repository.NewMemoryArtifactRepository()
	objects := storage.NewMemoryStorage()
	store := artifact.NewStore(repo, objects, t.TempDir(), testLogger())

	payload := bytes.Repeat([]byte("cache me "), 4096)
	created, err := store.Create(ctx, belt.FromBytes(payload), uuid.New(), "image/jpeg")
	require.NoError(t, err)

	// Act
	first, err := store.ReadByID(ctx, created.ID)
	require.NoError(t, err)
	firstBytes, err := first.Collect()
	require.NoError(t, err)

	second, err := store.ReadByID(ctx, created.ID)
	require.NoError(t, err)
	secondBytes, err := second.Collect()
	require.NoError(t, err)

	// Assert
	assert.Equal(t, firstBytes, secondBytes)
	assert.Equal(t, 1, objects.GetCalls())
	assert.Equal(t, belt.Zstd, second.Compression())
}

func TestArtifactStore_FetchByPath(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repository.NewMemoryArtifactRepository()
	objects := storage.NewMemoryStorage()
	store := artifact.NewStore(repo, objects, "", testLogger())

	created, err := store.Create(ctx, belt.FromBytes([]byte("payload")), uuid.New(), "image/png")
	require.NoError(t, err)

	// Act
	found, err := store.FetchByPath(ctx, created.Path)
	_, missErr := store.FetchByPath(ctx, domain.NewArtifactPath())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.ErrorIs(t, missErr, domain.ErrArtifactNotFound)
}
