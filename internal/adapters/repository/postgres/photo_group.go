package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"photodrop/internal/core/domain"
	"photodrop/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlPhotoGroupRepository struct {
	db SQLQuerier
}

// NewSqlPhotoGroupRepository creates sqlPhotoGroupRepository that implements port.PhotoGroupRepository
func NewSqlPhotoGroupRepository(db SQLQuerier) port.PhotoGroupRepository {
	return &sqlPhotoGroupRepository{
		db: db,
	}
}

// Create creates a new photo group entry. The photo list is stored as a
// uuid array to keep the upload order.
func (s *sqlPhotoGroupRepository) Create(ctx context.Context, group domain.PhotoGroup) error {
	query := `INSERT INTO photo_group (id, owner, photos, status, usage_rights_price_cents, created_at)
              VALUES ($1, $2, $3, $4, $5, $6)`

	photos := make([]string, 0, len(group.Photos))
	for _, id := range group.Photos {
		photos = append(photos, id.String())
	}

	_, err := s.db.ExecContext(ctx, query,
		group.ID,
		group.Owner,
		pq.Array(photos),
		string(group.Status),
		group.UsageRightsPriceCents,
		group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting photo group: %w", err)
	}
	return nil
}

// FindByID finds by id
func (s *sqlPhotoGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PhotoGroup, error) {
	query := `SELECT id, owner, photos, status, usage_rights_price_cents, created_at
              FROM photo_group WHERE id = $1`

	group, err := scanGroup(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPhotoGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

// FindByOwner lists groups owned by owner, newest first
func (s *sqlPhotoGroupRepository) FindByOwner(ctx context.Context, owner uuid.UUID) ([]domain.PhotoGroup, error) {
	query := `SELECT id, owner, photos, status, usage_rights_price_cents, created_at
              FROM photo_group WHERE owner = $1
              ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("error querying photo groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.PhotoGroup
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning photo group: %w", err)
		}
		groups = append(groups, *group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photo groups: %w", err)
	}
	return groups, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*domain.PhotoGroup, error) {
	var group domain.PhotoGroup
	var photos []string
	var status string
	if err := row.Scan(
		&group.ID,
		&group.Owner,
		pq.Array(&photos),
		&status,
		&group.UsageRightsPriceCents,
		&group.CreatedAt,
	); err != nil {
		return nil, err
	}

	group.Status = domain.PhotoGroupStatus(status)
	group.Photos = make([]uuid.UUID, 0, len(photos))
	for _, raw := range photos {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("error parsing photo id %q: %w", raw, err)
		}
		group.Photos = append(group.Photos, id)
	}
	return &group, nil
}
