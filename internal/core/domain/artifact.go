package domain

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// CompressionAlgorithm identifies the codec an artifact's stored bytes are
// compressed with. The zero value means the bytes are stored as-is. Values
// double as HTTP Content-Encoding wire names.
type CompressionAlgorithm string

const (
	CompressionNone CompressionAlgorithm = ""
	CompressionZstd CompressionAlgorithm = "zstd"
)

// CompressionStatus records how an artifact's bytes are stored. Both sizes
// are zero when the artifact is uncompressed.
type CompressionStatus struct {
	Algorithm        CompressionAlgorithm
	CompressedSize   int64
	UncompressedSize int64
}

// Compressed reports whether the stored bytes need decompression before use.
func (c CompressionStatus) Compressed() bool {
	return c.Algorithm != CompressionNone
}

// ArtifactPath is an artifact's content-address: the key its bytes are
// stored under in the object store. It is generated randomly per upload and
// is deliberately distinct from the artifact's logical ID, so the storage
// key can be regenerated or rebucketed without touching record identity.
type ArtifactPath string

// NewArtifactPath generates a fresh random content-address (a ULID:
// 128 bits, lexicographically sortable).
func NewArtifactPath() ArtifactPath {
	return ArtifactPath(ulid.MustNew(ulid.Now(), rand.Reader).String())
}

// Artifact is an immutable stored blob plus its storage and compression
// metadata. Content bytes are never mutated in place; re-uploading produces
// a new artifact. Private and public artifacts share this shape but live in
// separate tables and buckets, selected by which store they were written
// through, so visibility is not a field here.
type Artifact struct {
	ID             uuid.UUID
	Path           ArtifactPath
	Originator     uuid.UUID
	CompStatus     CompressionStatus
	StatedMimeType string
	CreatedAt      time.Time
}
