// Package ingest implements the photo ingestion pipeline: decode, EXIF
// correction, thumbnailing and watermarking, dual artifact upload and
// group assembly.
package ingest

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"

	"photodrop/internal/belt"
	"photodrop/internal/config"
	"photodrop/internal/core/domain"
	"photodrop/internal/core/port"
	"photodrop/internal/imaging"

	"github.com/google/uuid"
)

type ingestService struct {
	private   port.ArtifactStore
	public    port.ArtifactStore
	images    port.ImageRepository
	photos    port.PhotoRepository
	groups    port.PhotoGroupRepository
	events    port.EventPublisher // nil when publishing is disabled
	processor *imaging.Processor
	uploadCfg config.UploadConfig
	logger    *slog.Logger
}

// NewIngestService creates a new ingest service. Originals are written
// through the private store, watermarked thumbnails through the public one.
// events may be nil.
func NewIngestService(
	private, public port.ArtifactStore,
	images port.ImageRepository,
	photos port.PhotoRepository,
	groups port.PhotoGroupRepository,
	events port.EventPublisher,
	processor *imaging.Processor,
	cfg config.UploadConfig,
	logger *slog.Logger,
) port.IngestService {
	return &ingestService{
		private:   private,
		public:    public,
		images:    images,
		photos:    photos,
		groups:    groups,
		events:    events,
		processor: processor,
		uploadCfg: cfg,
		logger:    logger,
	}
}

// decodedPayload carries one payload's decoded pixels plus its upload
// index, so batch order survives the fan-out.
type decodedPayload struct {
	index   int
	decoded *imaging.Decoded
}

// UploadPhotoGroup runs the full pipeline for one batch. Decoding happens
// before any write and fails the batch as a whole, so an undecodable
// payload leaves no trace. Per-photo ingestion after that point is not
// transactional: a failing photo fails the upload but already ingested
// siblings stay behind.
func (s *ingestService) UploadPhotoGroup(ctx context.Context, owner uuid.UUID, params port.UploadPhotoGroupParams) (*domain.PhotoGroup, error) {
	if err := s.validate(params); err != nil {
		return nil, err
	}

	decoded, err := s.decodeAll(params.Payloads)
	if err != nil {
		return nil, err
	}

	photoIDs, err := s.ingestAll(ctx, owner, decoded)
	if err != nil {
		return nil, err
	}

	return s.assembleGroup(ctx, owner, photoIDs, params)
}

func (s *ingestService) validate(params port.UploadPhotoGroupParams) error {
	if len(params.Payloads) == 0 {
		return domain.ErrNoPhotos
	}
	if max := s.uploadCfg.MaxPhotosPerGroup; max > 0 && len(params.Payloads) > max {
		return fmt.Errorf("%w: %d photos, limit %d", domain.ErrTooManyPhotos, len(params.Payloads), max)
	}
	if max := s.uploadCfg.MaxPhotoSizeBytes; max > 0 {
		for i, payload := range params.Payloads {
			if int64(len(payload)) > max {
				return fmt.Errorf("%w: photo %d is %d bytes, limit %d", domain.ErrPhotoTooLarge, i, len(payload), max)
			}
		}
	}
	if params.UsageRightsPriceCents < domain.MinUsageRightsPriceCents {
		return fmt.Errorf("%w: %d cents, minimum %d", domain.ErrPriceTooLow, params.UsageRightsPriceCents, domain.MinUsageRightsPriceCents)
	}
	switch params.Status {
	case domain.PhotoGroupStatusPublic, domain.PhotoGroupStatusPrivate:
		return nil
	default:
		return fmt.Errorf("%w: unknown status %q", domain.ErrInternal, params.Status)
	}
}

// decodeAll decodes every payload concurrently and fails on the first
// undecodable one. It runs before any storage or database write.
func (s *ingestService) decodeAll(payloads [][]byte) ([]decodedPayload, error) {
	results := make(chan decodedPayload, len(payloads))
	errs := make(chan error, len(payloads))

	for i, payload := range payloads {
		go func(index int, data []byte) {
			dec, err := s.processor.Decode(data)
			if err != nil {
				errs <- fmt.Errorf("photo %d: %w", index, err)
				return
			}
			results <- decodedPayload{index: index, decoded: dec}
		}(i, payload)
	}

	decoded := make([]decodedPayload, 0, len(payloads))
	var firstErr error
	for range payloads {
		select {
		case d := <-results:
			decoded = append(decoded, d)
		case err := <-errs:
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(decoded, func(i, j int) bool { return decoded[i].index < decoded[j].index })
	return decoded, nil
}

type photoResult struct {
	index int
	id    uuid.UUID
	err   error
}

// ingestAll fans each decoded payload out to its own goroutine and
// collects the created photo IDs back in upload order.
func (s *ingestService) ingestAll(ctx context.Context, owner uuid.UUID, decoded []decodedPayload) ([]uuid.UUID, error) {
	results := make(chan photoResult, len(decoded))
	for _, d := range decoded {
		go func(d decodedPayload) {
			photo, err := s.ingestPhoto(ctx, owner, d)
			if err != nil {
				results <- photoResult{index: d.index, err: err}
				return
			}
			results <- photoResult{index: d.index, id: photo.ID}
		}(d)
	}

	collected := make([]photoResult, 0, len(decoded))
	for range decoded {
		collected = append(collected, <-results)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	ids := make([]uuid.UUID, 0, len(collected))
	for _, r := range collected {
		if r.err != nil {
			s.logger.Error("photo ingestion failed", "index", r.index, "error", r.err)
			return nil, fmt.Errorf("%w: photo %d: %s", domain.ErrInternal, r.index, r.err)
		}
		ids = append(ids, r.id)
	}
	return ids, nil
}

// ingestPhoto turns one decoded payload into a photo record: the
// orientation-corrected original is re-encoded and goes to the private
// store, the watermarked thumbnail to the public one, both uploads running
// concurrently. What is stored is always the upright rendition, so
// downstream consumers never need the EXIF orientation to display it.
func (s *ingestService) ingestPhoto(ctx context.Context, owner uuid.UUID, d decodedPayload) (*domain.Photo, error) {
	oriented := s.processor.ApplyOrientation(d.decoded.Img, d.decoded.Meta.Orientation)

	originalData, err := s.processor.EncodeJPEG(oriented)
	if err != nil {
		return nil, err
	}

	thumb := s.processor.Thumbnail(oriented)
	thumbData, err := s.processor.EncodeJPEG(thumb)
	if err != nil {
		return nil, err
	}

	var originalImage, thumbnailImage *domain.Image
	errs := make(chan error, 2)
	go func() {
		var err error
		originalImage, err = s.createImage(ctx, s.private, originalData, owner, "image/jpeg", oriented)
		errs <- err
	}()
	go func() {
		var err error
		thumbnailImage, err = s.createImage(ctx, s.public, thumbData, owner, "image/jpeg", thumb)
		errs <- err
	}()
	for i := 0; i < 2; i++ {
		if uploadErr := <-errs; uploadErr != nil && err == nil {
			err = uploadErr
		}
	}
	if err != nil {
		return nil, err
	}

	photo := domain.Photo{
		ID:             uuid.New(),
		GroupID:        uuid.Nil,
		OriginalImage:  originalImage.ID,
		ThumbnailImage: thumbnailImage.ID,
		Meta: domain.PhotoMeta{
			TakenAt:     d.decoded.Meta.TakenAt,
			Orientation: d.decoded.Meta.Orientation,
		},
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCreateModel, err)
	}
	return &photo, nil
}

// createImage stores data as an artifact and records an image for it. img
// supplies the dimensions and tiny preview.
func (s *ingestService) createImage(ctx context.Context, store port.ArtifactStore, data []byte, originator uuid.UUID, mimeType string, img image.Image) (*domain.Image, error) {
	artifact, err := store.Create(ctx, belt.FromBytes(data), originator, mimeType)
	if err != nil {
		return nil, err
	}
	return s.recordImage(ctx, artifact.ID, img)
}

// CreateImageFromArtifact derives an image record from an already stored
// artifact, decoding it to recover dimensions and a tiny preview.
func (s *ingestService) CreateImageFromArtifact(ctx context.Context, artifactID uuid.UUID) (*domain.Image, error) {
	data, err := s.private.ReadByID(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	plain, err := data.AdaptToNoCompression()
	if err != nil {
		data.Close()
		return nil, fmt.Errorf("%w: %s", domain.ErrInternal, err)
	}
	raw, err := plain.Collect()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStorageRead, err)
	}

	decoded, err := s.processor.Decode(raw)
	if err != nil {
		return nil, err
	}
	oriented := s.processor.ApplyOrientation(decoded.Img, decoded.Meta.Orientation)
	return s.recordImage(ctx, artifactID, oriented)
}

func (s *ingestService) recordImage(ctx context.Context, artifactID uuid.UUID, img image.Image) (*domain.Image, error) {
	preview, err := s.processor.TinyPreview(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInternal, err)
	}

	bounds := img.Bounds()
	record := domain.Image{
		ID:          uuid.New(),
		ArtifactID:  artifactID,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		TinyPreview: preview,
	}
	if err := s.images.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCreateModel, err)
	}
	return &record, nil
}

// FetchPhotoThumbnail resolves a photo's public thumbnail bytes, still
// compressed and tagged, plus the artifact record needed for response
// encoding negotiation.
func (s *ingestService) FetchPhotoThumbnail(ctx context.Context, photoID uuid.UUID) (*port.ThumbnailPayload, error) {
	photo, err := s.photos.FindByID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPhotoNotFound, err)
	}
	img, err := s.images.FindByID(ctx, photo.ThumbnailImage)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, err)
	}
	artifact, err := s.public.FetchByID(ctx, img.ArtifactID)
	if err != nil {
		return nil, err
	}
	data, err := s.public.ReadByID(ctx, img.ArtifactID)
	if err != nil {
		return nil, err
	}
	return &port.ThumbnailPayload{Data: data, Artifact: artifact}, nil
}

// FetchPhotoGroup resolves a photo group by ID.
func (s *ingestService) FetchPhotoGroup(ctx context.Context, groupID uuid.UUID) (*domain.PhotoGroup, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPhotoGroupNotFound, err)
	}
	return group, nil
}

// FetchPhotoGroupsByOwner lists the groups owned by owner.
func (s *ingestService) FetchPhotoGroupsByOwner(ctx context.Context, owner uuid.UUID) ([]domain.PhotoGroup, error) {
	return s.groups.FindByOwner(ctx, owner)
}
