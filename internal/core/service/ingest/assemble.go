package ingest

import (
	"context"
	"fmt"
	"time"

	"photodrop/internal/core/domain"
	"photodrop/internal/core/port"

	"github.com/google/uuid"
)

// assembleGroup writes the group record and then patches each photo's
// back-reference, in upload order. The two phases are not atomic: until the
// last patch lands, the group lists photos that do not yet point back at
// it, and a failed patch leaves that state behind permanently. There is no
// rollback.
func (s *ingestService) assembleGroup(ctx context.Context, owner uuid.UUID, photoIDs []uuid.UUID, params port.UploadPhotoGroupParams) (*domain.PhotoGroup, error) {
	group := domain.PhotoGroup{
		ID:                    uuid.New(),
		Owner:                 owner,
		Photos:                photoIDs,
		Status:                params.Status,
		UsageRightsPriceCents: params.UsageRightsPriceCents,
		CreatedAt:             time.Now().UTC(),
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCreateModel, err)
	}

	for _, photoID := range photoIDs {
		if err := s.photos.UpdateGroup(ctx, photoID, group.ID); err != nil {
			s.logger.Error("photo group back-reference patch failed",
				"group_id", group.ID, "photo_id", photoID, "error", err)
			return nil, fmt.Errorf("%w: patch photo %s: %s", domain.ErrCreateModel, photoID, err)
		}
	}

	s.publishCreated(ctx, group)
	return &group, nil
}

// publishCreated emits the group created event. Publishing is best-effort;
// a broker failure never fails an upload that already persisted.
func (s *ingestService) publishCreated(ctx context.Context, group domain.PhotoGroup) {
	if s.events == nil {
		return
	}
	event := port.PhotoGroupCreatedEvent{
		GroupID:    group.ID,
		Owner:      group.Owner,
		PhotoCount: len(group.Photos),
		CreatedAt:  group.CreatedAt,
	}
	if err := s.events.PublishPhotoGroupCreated(ctx, event); err != nil {
		s.logger.Warn("photo group created event publish failed",
			"group_id", group.ID, "error", err)
	}
}
