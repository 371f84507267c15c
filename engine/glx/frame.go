package glx

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// Frame is an off-screen render target: one framebuffer with one RGBA8
// color texture attached.
type Frame struct {
	fb            binder
	tex           *Texture
	width, height int
}

// NewFrame creates a fully allocated framebuffer of the given size. The
// attached texture starts out with undefined contents.
func NewFrame(width, height int, smooth bool) (*Frame, error) {
	frame := &Frame{
		fb: binder{
			restoreLoc: gl.FRAMEBUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindFramebuffer(gl.FRAMEBUFFER, obj)
			},
		},
		width:  width,
		height: height,
	}
	frame.tex = NewTexture(width, height, smooth, nil)

	gl.GenFramebuffers(1, &frame.fb.obj)

	frame.fb.bind()
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, frame.tex.ID(), 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	frame.fb.restore()

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &frame.fb.obj)
		frame.tex.Destroy()
		return nil, errors.Errorf("incomplete framebuffer: status 0x%x", status)
	}
	return frame, nil
}

// Width returns the width of the Frame in pixels.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the height of the Frame in pixels.
func (f *Frame) Height() int {
	return f.height
}

// Texture returns the color attachment of this Frame. Do not sample from it
// while the Frame is the active render target.
func (f *Frame) Texture() *Texture {
	return f.tex
}

// Begin binds the Frame as the active render target.
func (f *Frame) Begin() {
	f.fb.bind()
}

// End unbinds the Frame and restores the previous render target.
func (f *Frame) End() {
	f.fb.restore()
}

// ReadPixels returns the full RGBA8 contents of the Frame. Row 0 of the
// returned buffer is the bottom window-space row, as OpenGL stores it.
func (f *Frame) ReadPixels() []uint8 {
	pixels := make([]uint8, f.width*f.height*4)
	f.fb.bind()
	gl.ReadPixels(0, 0, int32(f.width), int32(f.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	f.fb.restore()
	return pixels
}

// Destroy releases the framebuffer and its texture. The Frame must not be
// used afterwards.
func (f *Frame) Destroy() {
	gl.DeleteFramebuffers(1, &f.fb.obj)
	f.fb.obj = 0
	f.tex.Destroy()
}
