package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"photodrop/internal/core/domain"
	"photodrop/internal/core/port"

	"github.com/google/uuid"
)

type sqlImageRepository struct {
	db SQLQuerier
}

// NewSqlImageRepository creates sqlImageRepository that implements port.ImageRepository
func NewSqlImageRepository(db SQLQuerier) port.ImageRepository {
	return &sqlImageRepository{
		db: db,
	}
}

// Create creates a new image entry
func (s *sqlImageRepository) Create(ctx context.Context, image domain.Image) error {
	query := `INSERT INTO image (id, artifact_id, width, height, preview_width, preview_height, preview_data)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		image.ID,
		image.ArtifactID,
		image.Width,
		image.Height,
		image.TinyPreview.Width,
		image.TinyPreview.Height,
		image.TinyPreview.Data,
	)
	if err != nil {
		return fmt.Errorf("error inserting image: %w", err)
	}
	return nil
}

// FindByID finds by id
func (s *sqlImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Image, error) {
	query := `SELECT id, artifact_id, width, height, preview_width, preview_height, preview_data
              FROM image WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

// FindByArtifactID finds the image derived from an artifact
func (s *sqlImageRepository) FindByArtifactID(ctx context.Context, artifactID uuid.UUID) (*domain.Image, error) {
	query := `SELECT id, artifact_id, width, height, preview_width, preview_height, preview_data
              FROM image WHERE artifact_id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, artifactID))
}

func (s *sqlImageRepository) scanOne(row *sql.Row) (*domain.Image, error) {
	var image domain.Image
	err := row.Scan(
		&image.ID,
		&image.ArtifactID,
		&image.Width,
		&image.Height,
		&image.TinyPreview.Width,
		&image.TinyPreview.Height,
		&image.TinyPreview.Data,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrImageNotFound
		}
		return nil, err
	}
	return &image, nil
}
