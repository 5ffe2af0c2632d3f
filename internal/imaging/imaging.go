// Package imaging wraps the image work the ingestion pipeline needs:
// decoding with EXIF recovery, orientation correction, thumbnailing,
// watermarking and tiny inline previews. All pixel work goes through a
// Processor, which bounds how many transformations run at once.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"runtime"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"photodrop/internal/core/domain"
)

// jpegQuality is used for thumbnails and tiny previews.
const jpegQuality = 85

// Meta is best-effort metadata pulled from a payload's EXIF block. Zero
// values mean the block was absent or unreadable.
type Meta struct {
	TakenAt     *time.Time
	Orientation int
}

// Decoded is a successfully decoded payload plus whatever EXIF metadata
// could be recovered from it.
type Decoded struct {
	Img  image.Image
	Meta Meta
}

// Processor runs pixel transformations under a fixed-size worker pool so a
// large upload batch cannot saturate every core.
type Processor struct {
	sem chan struct{}
}

// New creates a Processor allowing up to workers concurrent
// transformations. Non-positive workers defaults to GOMAXPROCS.
func New(workers int) *Processor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Processor{sem: make(chan struct{}, workers)}
}

func (p *Processor) acquire() { p.sem <- struct{}{} }
func (p *Processor) release() { <-p.sem }

// Decode parses data as an image. Decode failure is terminal for the
// payload; EXIF failure is not, the metadata is simply left zero.
func (p *Processor) Decode(data []byte) (*Decoded, error) {
	p.acquire()
	defer p.release()

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidImage, err)
	}

	d := &Decoded{Img: img}
	if x, err := exif.Decode(bytes.NewReader(data)); err == nil {
		if tag, err := x.Get(exif.Orientation); err == nil {
			if o, err := tag.Int(0); err == nil {
				d.Meta.Orientation = o
			}
		}
		if taken, err := x.DateTime(); err == nil {
			d.Meta.TakenAt = &taken
		}
	}
	return d, nil
}

// ApplyOrientation bakes an EXIF orientation into the pixels so every
// derived rendition can treat the image as orientation 1. Values outside
// 2..8 are a no-op.
func (p *Processor) ApplyOrientation(img image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return img
	}
	p.acquire()
	defer p.release()

	// imaging rotations are counter-clockwise, EXIF's are clockwise.
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	default:
		return imaging.Rotate90(img)
	}
}

// ThumbnailSize computes thumbnail dimensions for a w by h source: the
// long side becomes 200 and the short side keeps the aspect ratio. The
// aspect ratio is carried in float32.
func ThumbnailSize(w, h int) (int, int) {
	aspect := float32(w) / float32(h)
	if aspect > 1 {
		return 200, int(200.0 / aspect)
	}
	return int(200.0 * aspect), 200
}

// Thumbnail produces the watermarked public rendition of img: resized per
// ThumbnailSize with Lanczos resampling, then stamped with the site
// watermark.
func (p *Processor) Thumbnail(img image.Image) image.Image {
	p.acquire()
	defer p.release()

	b := img.Bounds()
	tw, th := ThumbnailSize(b.Dx(), b.Dy())
	thumb := imaging.Resize(img, tw, th, imaging.Lanczos)
	return stampWatermark(thumb)
}

// TinyPreview produces the inline preview stored on the image record: the
// source scaled to fit within MaxTinyPreviewDimension and encoded as JPEG.
func (p *Processor) TinyPreview(img image.Image) (domain.TinyPreview, error) {
	p.acquire()
	defer p.release()

	fitted := imaging.Fit(img, domain.MaxTinyPreviewDimension, domain.MaxTinyPreviewDimension, imaging.CatmullRom)
	data, err := encodeJPEG(fitted)
	if err != nil {
		return domain.TinyPreview{}, err
	}
	b := fitted.Bounds()
	return domain.TinyPreview{Width: b.Dx(), Height: b.Dy(), Data: data}, nil
}

// EncodeJPEG serializes img for storage.
func (p *Processor) EncodeJPEG(img image.Image) ([]byte, error) {
	p.acquire()
	defer p.release()
	return encodeJPEG(img)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
