package analysis

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"

	"github.com/evaleek/cookiecut/engine/glx"
	"github.com/evaleek/cookiecut/engine/util"
)

// ImageResource is a source bitmap uploaded as a GPU texture. If the bitmap
// exceeded the device size limit it was downsampled to fit, preserving
// aspect ratio; Clipped records that this happened. The resource is
// immutable after construction.
type ImageResource struct {
	tex *glx.Texture

	OriginalWidth  int
	OriginalHeight int
	Width          int
	Height         int
	Clipped        bool
}

// NewImageResource uploads img, downscaling it first when either dimension
// exceeds sizeLimit. Oversized input is not an error; it degrades to the
// best representable resolution and callers needing to warn the user must
// consult Clipped.
func NewImageResource(img image.Image, sizeLimit int) *ImageResource {
	bounds := img.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()

	w, h, clipped := clipSize(origW, origH, sizeLimit)
	if clipped {
		util.LogTextureWarning(fmt.Sprintf(
			"source %dx%d exceeds device limit %d, downsampling to %dx%d",
			origW, origH, sizeLimit, w, h))
		img = resize.Resize(uint(w), uint(h), img, resize.Bilinear)
	}

	return &ImageResource{
		tex:            glx.NewTextureFromImage(img, true),
		OriginalWidth:  origW,
		OriginalHeight: origH,
		Width:          w,
		Height:         h,
		Clipped:        clipped,
	}
}

// clipSize computes the uniform downscale needed to bring both dimensions
// under limit, flooring the scaled result.
func clipSize(width, height, limit int) (int, int, bool) {
	if width <= limit && height <= limit {
		return width, height, false
	}
	factor := float64(width) / float64(limit)
	if f := float64(height) / float64(limit); f > factor {
		factor = f
	}
	w := int(float64(width) / factor)
	h := int(float64(height) / factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h, true
}

// Texture returns the GPU texture holding the (possibly downsampled)
// bitmap.
func (r *ImageResource) Texture() *glx.Texture {
	return r.tex
}

// Destroy releases the GPU texture. The resource must not be used
// afterwards.
func (r *ImageResource) Destroy() {
	r.tex.Destroy()
}
