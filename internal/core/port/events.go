package port

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PhotoGroupCreatedEvent is published after a photo group finishes
// assembly.
type PhotoGroupCreatedEvent struct {
	GroupID    uuid.UUID `json:"group_id"`
	Owner      uuid.UUID `json:"owner"`
	PhotoCount int       `json:"photo_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventPublisher is an interface to define an event publisher (nats, ...)
type EventPublisher interface {
	PublishPhotoGroupCreated(ctx context.Context, event PhotoGroupCreatedEvent) error
	Close() error
}
