package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"photodrop/internal/core/domain"
	"photodrop/internal/core/port"
	"time"

	"github.com/google/uuid"
)

type sqlArtifactRepository struct {
	db    SQLQuerier
	table string
}

// NewSqlArtifactRepository creates sqlArtifactRepository that implements
// port.ArtifactRepository over the given table, one of TableArtifactPrivate
// or TableArtifactPublic
func NewSqlArtifactRepository(db SQLQuerier, table string) port.ArtifactRepository {
	return &sqlArtifactRepository{
		db:    db,
		table: table,
	}
}

// Create creates a new artifact entry
func (s *sqlArtifactRepository) Create(ctx context.Context, artifact domain.Artifact) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, path, originator, compression_algorithm, compressed_size, uncompressed_size, stated_mime_type, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, s.table)

	_, err := s.db.ExecContext(ctx, query,
		artifact.ID,
		string(artifact.Path),
		artifact.Originator,
		string(artifact.CompStatus.Algorithm),
		artifact.CompStatus.CompressedSize,
		artifact.CompStatus.UncompressedSize,
		artifact.StatedMimeType,
		artifact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting artifact: %w", err)
	}
	return nil
}

// FindByID finds by id
func (s *sqlArtifactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	query := fmt.Sprintf(`SELECT id, path, originator, compression_algorithm, compressed_size, uncompressed_size, stated_mime_type, created_at
              FROM %s WHERE id = $1`, s.table)
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

// FindByPath finds by storage path
func (s *sqlArtifactRepository) FindByPath(ctx context.Context, path domain.ArtifactPath) (*domain.Artifact, error) {
	query := fmt.Sprintf(`SELECT id, path, originator, compression_algorithm, compressed_size, uncompressed_size, stated_mime_type, created_at
              FROM %s WHERE path = $1`, s.table)
	return s.scanOne(s.db.QueryRowContext(ctx, query, string(path)))
}

func (s *sqlArtifactRepository) scanOne(row *sql.Row) (*domain.Artifact, error) {
	var dbArt dbArtifact
	err := row.Scan(
		&dbArt.ID,
		&dbArt.Path,
		&dbArt.Originator,
		&dbArt.CompressionAlgorithm,
		&dbArt.CompressedSize,
		&dbArt.UncompressedSize,
		&dbArt.StatedMimeType,
		&dbArt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, err
	}
	return dbArt.ToDomain(), nil
}

// dbArtifact represents an artifact in DB
type dbArtifact struct {
	ID                   uuid.UUID `db:"id"`
	Path                 string    `db:"path"`
	Originator           uuid.UUID `db:"originator"`
	CompressionAlgorithm string    `db:"compression_algorithm"`
	CompressedSize       int64     `db:"compressed_size"`
	UncompressedSize     int64     `db:"uncompressed_size"`
	StatedMimeType       string    `db:"stated_mime_type"`
	CreatedAt            time.Time `db:"created_at"`
}

// ToDomain converts to domain.Artifact
func (a *dbArtifact) ToDomain() *domain.Artifact {
	return &domain.Artifact{
		ID:         a.ID,
		Path:       domain.ArtifactPath(a.Path),
		Originator: a.Originator,
		CompStatus: domain.CompressionStatus{
			Algorithm:        domain.CompressionAlgorithm(a.CompressionAlgorithm),
			CompressedSize:   a.CompressedSize,
			UncompressedSize: a.UncompressedSize,
		},
		StatedMimeType: a.StatedMimeType,
		CreatedAt:      a.CreatedAt,
	}
}
