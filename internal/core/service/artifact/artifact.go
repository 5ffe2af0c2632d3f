// Package artifact implements the artifact store: content-addressed blob
// storage with compression and a metadata record per blob. A store instance
// is bound to one bucket and one metadata table; the private and public
// flavors are two instances of this same type.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"photodrop/internal/belt"
	"photodrop/internal/core/domain"
	"photodrop/internal/core/port"

	"github.com/google/uuid"
)

type store struct {
	repo     port.ArtifactRepository
	storage  port.ObjectStorage
	cacheDir string
	logger   *slog.Logger
}

// NewStore creates an artifact store over the given repository and bucket.
// cacheDir enables a read-through file cache keyed by artifact path; pass
// an empty string to disable caching.
func NewStore(repo port.ArtifactRepository, storage port.ObjectStorage, cacheDir string, logger *slog.Logger) port.ArtifactStore {
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			logger.Warn("artifact cache disabled", "dir", cacheDir, "error", err)
			cacheDir = ""
		}
	}
	return &store{repo: repo, storage: storage, cacheDir: cacheDir, logger: logger}
}

// Create compresses data, writes it under a fresh random path and persists
// the artifact record. The record write comes after the storage write, so a
// failed record write leaves an orphaned blob behind.
func (s *store) Create(ctx context.Context, data *belt.Belt, originator uuid.UUID, statedMimeType string) (*domain.Artifact, error) {
	compressed, err := data.AdaptToCompression(belt.Zstd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInternal, err)
	}

	path := domain.NewArtifactPath()
	compressedSize, err := s.storage.Put(ctx, string(path), compressed)
	if err != nil {
		// unwind the compression goroutine on a partial upload
		compressed.Close()
		return nil, fmt.Errorf("%w: %s", domain.ErrStorageWrite, err)
	}

	artifact := domain.Artifact{
		ID:         uuid.New(),
		Path:       path,
		Originator: originator,
		CompStatus: domain.CompressionStatus{
			Algorithm:        domain.CompressionAlgorithm(compressed.Compression()),
			CompressedSize:   compressedSize,
			UncompressedSize: data.Counter(),
		},
		StatedMimeType: statedMimeType,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, artifact); err != nil {
		s.logger.Warn("artifact record write failed, blob orphaned",
			"path", path, "error", err)
		return nil, fmt.Errorf("%w: %s", domain.ErrCreateModel, err)
	}
	return &artifact, nil
}

// ReadByID returns an artifact's stored bytes, still compressed and tagged
// with the codec. Reads go through the file cache when one is configured: a
// cache hit never touches the object store, a miss tees the object store
// read into the cache while streaming it to the caller.
func (s *store) ReadByID(ctx context.Context, id uuid.UUID) (*belt.Belt, error) {
	artifact, err := s.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comp := belt.Compression(artifact.CompStatus.Algorithm)

	if s.cacheDir != "" {
		f, err := os.Open(s.cachePath(artifact.Path))
		if err == nil {
			return belt.FromReader(f).WithCompression(comp), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("artifact cache read failed", "path", artifact.Path, "error", err)
		}
	}

	obj, err := s.storage.Get(ctx, string(artifact.Path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStorageRead, err)
	}
	if s.cacheDir == "" {
		return belt.FromReader(obj).WithCompression(comp), nil
	}
	return s.cacheThrough(obj, artifact.Path).WithCompression(comp), nil
}

// FetchByID resolves an artifact record without touching storage.
func (s *store) FetchByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	artifact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, err)
	}
	return artifact, nil
}

// FetchByPath resolves an artifact record by its storage path.
func (s *store) FetchByPath(ctx context.Context, path domain.ArtifactPath) (*domain.Artifact, error) {
	artifact, err := s.repo.FindByPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, err)
	}
	return artifact, nil
}

func (s *store) cachePath(path domain.ArtifactPath) string {
	return filepath.Join(s.cacheDir, string(path))
}

// cacheThrough streams obj to the returned belt while writing the same
// bytes to a temp file, which is renamed into the cache on success. The
// rename happens before the belt's clean EOF, so a consumer that reaches
// EOF may rely on the cache entry existing. A cache write failure degrades
// to a plain uncached read.
func (s *store) cacheThrough(obj io.ReadCloser, path domain.ArtifactPath) *belt.Belt {
	w, b := belt.Pipe(belt.DefaultCapacity)
	go func() {
		defer obj.Close()

		tmp, err := os.CreateTemp(s.cacheDir, string(path)+".tmp*")
		if err != nil {
			s.logger.Warn("artifact cache unavailable", "path", path, "error", err)
			if _, err := io.Copy(w, obj); err != nil {
				w.CloseWithError(err)
				return
			}
			w.Close()
			return
		}

		buf := make([]byte, 32*1024)
		_, err = io.CopyBuffer(io.MultiWriter(w, tmp), obj, buf)
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			w.CloseWithError(err)
			return
		}
		if err := tmp.Close(); err == nil {
			if err := os.Rename(tmp.Name(), s.cachePath(path)); err != nil {
				s.logger.Warn("artifact cache rename failed", "path", path, "error", err)
				os.Remove(tmp.Name())
			}
		} else {
			os.Remove(tmp.Name())
		}
		w.Close()
	}()
	return b
}
