package imaging

import (
	"bytes"
	_ "embed"
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

//go:embed assets/watermark.png
var watermarkPNG []byte

var (
	watermarkOnce sync.Once
	watermarkImg  image.Image
)

// stampWatermark overlays the site watermark on the center of img at full
// opacity. The mark is scaled down to fit inside the target but never
// scaled up.
func stampWatermark(img image.Image) image.Image {
	watermarkOnce.Do(func() {
		m, err := imaging.Decode(bytes.NewReader(watermarkPNG))
		if err != nil {
			// embedded asset, decode cannot fail at runtime
			panic(err)
		}
		watermarkImg = m
	})

	b := img.Bounds()
	mark := watermarkImg
	mb := mark.Bounds()
	if mb.Dx() > b.Dx() || mb.Dy() > b.Dy() {
		mark = imaging.Fit(mark, b.Dx(), b.Dy(), imaging.Lanczos)
	}
	return imaging.OverlayCenter(img, mark, 1.0)
}
