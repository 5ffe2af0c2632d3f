package domain

import (
	"time"

	"github.com/google/uuid"
)

// PhotoMeta is best-effort metadata recovered from a photo's EXIF block.
// Zero values mean the block was missing or unparseable.
type PhotoMeta struct {
	TakenAt     *time.Time
	Orientation int
}

// Photo is a single ingested photo. The original image is stored privately,
// the watermarked thumbnail publicly. GroupID is uuid.Nil until the owning
// photo group is created and the back-reference is patched in; the patch
// happens exactly once.
type Photo struct {
	ID             uuid.UUID
	GroupID        uuid.UUID
	OriginalImage  uuid.UUID
	ThumbnailImage uuid.UUID
	Meta           PhotoMeta
}
