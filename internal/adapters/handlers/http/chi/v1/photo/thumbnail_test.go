package photo_test

import (
	"bytes"
	"io"
	"log/slog"
	http2 "net/http"
	"net/http/httptest"
	"testing"

	"photodrop/internal/adapters/handlers/http/chi"
	photo2 "photodrop/internal/adapters/handlers/http/chi/v1/photo"
	"photodrop/internal/belt"
	"photodrop/internal/core/domain"
	"photodrop/internal/core/port"
	"photodrop/internal/core/service/ingest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var thumbnailBytes = bytes.Repeat([]byte("jpeg-ish bytes "), 1024)

func compressedThumbnail(t *testing.T) ([]byte, *belt.Belt) {
	t.Helper()
	compressed, err := belt.FromBytes(thumbnailBytes).AdaptToCompression(belt.Zstd)
	require.NoError(t, err)
	raw, err := compressed.Collect()
	require.NoError(t, err)
	return raw, belt.FromBytes(raw).WithCompression(belt.Zstd)
}

func zstdArtifact(mimeType string) *domain.Artifact {
	return &domain.Artifact{
		ID:             uuid.New(),
		Path:           domain.NewArtifactPath(),
		CompStatus:     domain.CompressionStatus{Algorithm: domain.CompressionZstd},
		StatedMimeType: mimeType,
	}
}

func TestGetThumbnailV1(t *testing.T) {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("client accepting zstd gets stored bytes passed through", func(t *testing.T) {
		// Arrange
		photoID := uuid.New()
		raw, data := compressedThumbnail(t)

		mockService := ingest.NewMockIngestService()
		mockService.On("FetchPhotoThumbnail", mock.Anything, photoID).
			Return(&port.ThumbnailPayload{Data: data, Artifact: zstdArtifact("image/jpeg")}, nil)

		handler := photo2.NewPhotoHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/photo/"+photoID.String()+"/thumbnail", nil)
		req.Header.Set("Accept-Encoding", "gzip, zstd, br")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		assert.Equal(t, "zstd", w.Header().Get("Content-Encoding"))
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, "max-age=31536000, immutable", w.Header().Get("Cache-Control"))
		assert.Equal(t, raw, w.Body.Bytes())
	})

	t.Run("client without zstd gets decompressed bytes", func(t *testing.T) {
		// Arrange
		photoID := uuid.New()
		_, data := compressedThumbnail(t)

		mockService := ingest.NewMockIngestService()
		mockService.On("FetchPhotoThumbnail", mock.Anything, photoID).
			Return(&port.ThumbnailPayload{Data: data, Artifact: zstdArtifact("image/jpeg")}, nil)

		handler := photo2.NewPhotoHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/photo/"+photoID.String()+"/thumbnail", nil)
		req.Header.Set("Accept-Encoding", "gzip, br")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, thumbnailBytes, w.Body.Bytes())
	})

	t.Run("client refusing zstd with q=0 gets decompressed bytes", func(t *testing.T) {
		// Arrange
		photoID := uuid.New()
		_, data := compressedThumbnail(t)

		mockService := ingest.NewMockIngestService()
		mockService.On("FetchPhotoThumbnail", mock.Anything, photoID).
			Return(&port.ThumbnailPayload{Data: data, Artifact: zstdArtifact("image/jpeg")}, nil)

		handler := photo2.NewPhotoHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/photo/"+photoID.String()+"/thumbnail", nil)
		req.Header.Set("Accept-Encoding", "gzip, zstd;q=0")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, thumbnailBytes, w.Body.Bytes())
	})

	t.Run("client accepting zstd with a positive q gets passthrough", func(t *testing.T) {
		// Arrange
		photoID := uuid.New()
		raw, data := compressedThumbnail(t)

		mockService := ingest.NewMockIngestService()
		mockService.On("FetchPhotoThumbnail", mock.Anything, photoID).
			Return(&port.ThumbnailPayload{Data: data, Artifact: zstdArtifact("image/jpeg")}, nil)

		handler := photo2.NewPhotoHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/photo/"+photoID.String()+"/thumbnail", nil)
		req.Header.Set("Accept-Encoding", "zstd;q=0.5, gzip;q=1.0")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		assert.Equal(t, "zstd", w.Header().Get("Content-Encoding"))
		assert.Equal(t, raw, w.Body.Bytes())
	})

	t.Run("uncompressed artifact is never compressed on the fly", func(t *testing.T) {
		// Arrange
		photoID := uuid.New()
		artifact := zstdArtifact("image/png")
		artifact.CompStatus = domain.CompressionStatus{}

		mockService := ingest.NewMockIngestService()
		mockService.On("FetchPhotoThumbnail", mock.Anything, photoID).
			Return(&port.ThumbnailPayload{Data: belt.FromBytes(thumbnailBytes), Artifact: artifact}, nil)

		handler := photo2.NewPhotoHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/photo/"+photoID.String()+"/thumbnail", nil)
		req.Header.Set("Accept-Encoding", "zstd")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, thumbnailBytes, w.Body.Bytes())
	})

	t.Run("missing stated mime falls back to octet-stream", func(t *testing.T) {
		// Arrange
		photoID := uuid.New()
		_, data := compressedThumbnail(t)

		mockService := ingest.NewMockIngestService()
		mockService.On("FetchPhotoThumbnail", mock.Anything, photoID).
			Return(&port.ThumbnailPayload{Data: data, Artifact: zstdArtifact("")}, nil)

		handler := photo2.NewPhotoHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/photo/"+photoID.String()+"/thumbnail", nil)
		req.Header.Set("Accept-Encoding", "zstd")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	})

	t.Run("error - not found", func(t *testing.T) {
		// Arrange
		mockService := ingest.NewMockIngestService()
		mockService.On("FetchPhotoThumbnail", mock.Anything, mock.Anything).
			Return(nil, domain.ErrPhotoNotFound)

		handler := photo2.NewPhotoHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/photo/"+uuid.New().String()+"/thumbnail", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusNotFound, w.Code)
	})

	t.Run("error - invalid id", func(t *testing.T) {
		// Arrange
		mockService := ingest.NewMockIngestService()
		handler := photo2.NewPhotoHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/photo/nope/thumbnail", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "FetchPhotoThumbnail", mock.Anything, mock.Anything)
	})
}
