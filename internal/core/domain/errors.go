package domain

import "errors"

// ErrInvalidImage is an error thrown when an uploaded payload cannot be
// decoded as an image; it aborts the whole batch
var ErrInvalidImage = errors.New("invalid image")

// ErrNoPhotos is an error thrown when an upload batch is empty
var ErrNoPhotos = errors.New("no photos provided")

// ErrTooManyPhotos is an error thrown when an upload batch exceeds the
// configured limit
var ErrTooManyPhotos = errors.New("too many photos")

// ErrPhotoTooLarge is an error thrown when a single payload exceeds the
// configured size limit
var ErrPhotoTooLarge = errors.New("photo too large")

// ErrPriceTooLow is an error thrown when a group's usage rights price is
// below the minimum
var ErrPriceTooLow = errors.New("usage rights price below minimum")

// ErrArtifactNotFound is an error thrown when an artifact record is not found
var ErrArtifactNotFound = errors.New("artifact not found")

// ErrImageNotFound is an error thrown when an image record is not found
var ErrImageNotFound = errors.New("image not found")

// ErrPhotoNotFound is an error thrown when a photo record is not found
var ErrPhotoNotFound = errors.New("photo not found")

// ErrPhotoGroupNotFound is an error thrown when a photo group record is not
// found
var ErrPhotoGroupNotFound = errors.New("photo group not found")

// ErrStorageWrite is an error thrown when the object store rejects or fails
// a write
var ErrStorageWrite = errors.New("storage write failed")

// ErrStorageRead is an error thrown when the object store fails a read
var ErrStorageRead = errors.New("storage read failed")

// ErrCreateModel is an error thrown when metadata persistence fails; when it
// follows a successful storage write the blob is orphaned
var ErrCreateModel = errors.New("create model failed")

// ErrInternal is an error thrown when a per-photo pipeline stage fails;
// records already created for successful siblings are not rolled back
var ErrInternal = errors.New("internal error")
