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

type sqlPhotoRepository struct {
	db SQLQuerier
}

// NewSqlPhotoRepository creates sqlPhotoRepository that implements port.PhotoRepository
func NewSqlPhotoRepository(db SQLQuerier) port.PhotoRepository {
	return &sqlPhotoRepository{
		db: db,
	}
}

// Create creates a new photo entry. A nil group is stored as NULL.
func (s *sqlPhotoRepository) Create(ctx context.Context, photo domain.Photo) error {
	query := `INSERT INTO photo (id, group_id, original_image, thumbnail_image, taken_at, orientation)
              VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		photo.ID,
		nullableUUID(photo.GroupID),
		photo.OriginalImage,
		photo.ThumbnailImage,
		photo.Meta.TakenAt,
		photo.Meta.Orientation,
	)
	if err != nil {
		return fmt.Errorf("error inserting photo: %w", err)
	}
	return nil
}

// FindByID finds by id
func (s *sqlPhotoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	query := `SELECT id, group_id, original_image, thumbnail_image, taken_at, orientation
              FROM photo WHERE id = $1`

	var photo domain.Photo
	var groupID uuid.NullUUID
	var takenAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&photo.ID,
		&groupID,
		&photo.OriginalImage,
		&photo.ThumbnailImage,
		&takenAt,
		&photo.Meta.Orientation,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPhotoNotFound
		}
		return nil, err
	}

	if groupID.Valid {
		photo.GroupID = groupID.UUID
	}
	if takenAt.Valid {
		t := takenAt.Time
		photo.Meta.TakenAt = &t
	}
	return &photo, nil
}

// UpdateGroup patches the photo's back-reference to its owning group
func (s *sqlPhotoRepository) UpdateGroup(ctx context.Context, photoID, groupID uuid.UUID) error {
	query := `UPDATE photo SET group_id = $1, updated_at = now() WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, groupID, photoID)
	if err != nil {
		return fmt.Errorf("error updating photo group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrPhotoNotFound
	}
	return nil
}

func nullableUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
