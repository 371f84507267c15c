package glx

import (
	"image"
	"image/draw"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Texture is an OpenGL texture holding RGBA8 pixels.
type Texture struct {
	tex           binder
	width, height int
	smooth        bool
}

// NewTexture creates a texture of the given size with initial pixel values.
// The pixels must be a sequence of RGBA values, one byte per component, in
// top-to-bottom row order, or nil for an uninitialized texture.
func NewTexture(width, height int, smooth bool, pixels []uint8) *Texture {
	tex := &Texture{
		tex: binder{
			restoreLoc: gl.TEXTURE_BINDING_2D,
			bindFunc: func(obj uint32) {
				gl.BindTexture(gl.TEXTURE_2D, obj)
			},
		},
		width:  width,
		height: height,
	}

	gl.GenTextures(1, &tex.tex.obj)

	tex.Begin()
	defer tex.End()

	var ptr interface{}
	if pixels != nil {
		ptr = pixels
	}
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(width),
		int32(height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		ptrOrNil(ptr),
	)

	tex.SetSmooth(smooth)
	tex.setWrapToClamp()

	return tex
}

// NewTextureFromImage uploads any image.Image as a texture, converting to
// NRGBA on the way. Row 0 of the image becomes texture coordinate v=0.
func NewTextureFromImage(img image.Image, smooth bool) *Texture {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || bounds.Min != image.Pt(0, 0) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return NewTexture(bounds.Dx(), bounds.Dy(), smooth, nrgba.Pix)
}

// ID returns the OpenGL name of this Texture.
func (t *Texture) ID() uint32 {
	return t.tex.obj
}

// Width returns the width of the Texture in pixels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the height of the Texture in pixels.
func (t *Texture) Height() int {
	return t.height
}

// SetSmooth selects linear (smooth) or nearest filtering. Smooth sampling
// is what gives the identity pass its implicit resampling.
func (t *Texture) SetSmooth(smooth bool) {
	t.smooth = smooth
	if smooth {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	}
}

// Smooth reports whether the Texture uses linear filtering.
func (t *Texture) Smooth() bool {
	return t.smooth
}

func (t *Texture) setWrapToClamp() {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

// Begin binds the Texture. This is necessary before sampling from it.
func (t *Texture) Begin() {
	t.tex.bind()
}

// End unbinds the Texture and restores the previous one.
func (t *Texture) End() {
	t.tex.restore()
}

// Destroy releases the texture object. The Texture must not be used
// afterwards.
func (t *Texture) Destroy() {
	gl.DeleteTextures(1, &t.tex.obj)
	t.tex.obj = 0
}

func ptrOrNil(data interface{}) unsafe.Pointer {
	if data == nil {
		return nil
	}
	return gl.Ptr(data)
}
