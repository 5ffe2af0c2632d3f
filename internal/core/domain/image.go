package domain

import "github.com/google/uuid"

// MaxTinyPreviewDimension is the maximum side length of an Image's tiny
// preview.
const MaxTinyPreviewDimension = 200

// TinyPreview is a small inline preview of an image, kept on the metadata
// record so listings can render without touching the blob store.
type TinyPreview struct {
	Width  int
	Height int
	Data   []byte
}

// Image is derived metadata for an artifact that holds image data. It is
// decoupled from the backing Artifact so dimensions and previews can be
// queried without resolving storage.
type Image struct {
	ID          uuid.UUID
	ArtifactID  uuid.UUID
	Width       int
	Height      int
	TinyPreview TinyPreview
}
