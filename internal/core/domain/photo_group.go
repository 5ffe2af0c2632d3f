package domain

import (
	"time"

	"github.com/google/uuid"
)

// PhotoGroupStatus is the visibility requested for a photo group.
type PhotoGroupStatus string

const (
	PhotoGroupStatusPublic  PhotoGroupStatus = "public"
	PhotoGroupStatusPrivate PhotoGroupStatus = "private"
)

// MinUsageRightsPriceCents is the minimum allowed price for the usage
// rights to a photo group, in USD cents.
const MinUsageRightsPriceCents int64 = 10

// PhotoGroup is an ordered batch of photos uploaded together and sold as a
// unit. Invariant once ingestion completes: every photo listed in Photos
// has its GroupID equal to this group's ID. Between group creation and the
// last per-photo patch that invariant is transiently violated; readers that
// need strict consistency must not read a freshly created group's photos.
type PhotoGroup struct {
	ID                    uuid.UUID
	Owner                 uuid.UUID
	Photos                []uuid.UUID
	Status                PhotoGroupStatus
	UsageRightsPriceCents int64
	CreatedAt             time.Time
}
