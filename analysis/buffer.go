package analysis

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/evaleek/cookiecut/engine/glx"
)

// ProcessingBuffer is an off-screen render target sized to an exact
// multiple of a cell grid. It is either enabled (the active render
// destination) or disabled.
type ProcessingBuffer struct {
	frame   *glx.Frame
	size    CellSize
	count   CellCount
	enabled bool
}

// NewProcessingBuffer allocates a buffer of CellSize x CellCount pixels.
func NewProcessingBuffer(size CellSize, count CellCount) (*ProcessingBuffer, error) {
	if err := checkGeometry(size, count); err != nil {
		return nil, err
	}
	frame, err := glx.NewFrame(size.Width*count.Columns, size.Height*count.Rows, true)
	if err != nil {
		return nil, err
	}
	return &ProcessingBuffer{frame: frame, size: size, count: count}, nil
}

// CellSize returns the per-cell pixel extent.
func (b *ProcessingBuffer) CellSize() CellSize {
	return b.size
}

// CellCount returns the grid extent.
func (b *ProcessingBuffer) CellCount() CellCount {
	return b.count
}

// Width returns the buffer width in pixels.
func (b *ProcessingBuffer) Width() int {
	return b.frame.Width()
}

// Height returns the buffer height in pixels.
func (b *ProcessingBuffer) Height() int {
	return b.frame.Height()
}

// Enable makes the buffer the active render destination and sets the
// viewport to exactly its pixel extent.
func (b *ProcessingBuffer) Enable() {
	if b.enabled {
		return
	}
	b.frame.Begin()
	gl.Viewport(0, 0, int32(b.frame.Width()), int32(b.frame.Height()))
	b.enabled = true
}

// Disable restores the previous render destination.
func (b *ProcessingBuffer) Disable() {
	if !b.enabled {
		return
	}
	b.frame.End()
	b.enabled = false
}

// Enabled reports whether the buffer is the active render destination.
func (b *ProcessingBuffer) Enabled() bool {
	return b.enabled
}

// Destroy releases the underlying framebuffer and texture.
func (b *ProcessingBuffer) Destroy() {
	b.frame.Destroy()
}

// ReadCells reads the full pixel contents of the buffer back and reshapes
// them into [gridRow][gridColumn][cellRow][cellColumn] order with mapPixel
// applied to every raw RGBA8 pixel. Grid row 0 is the top of the logical
// image; the bottom-first OpenGL row order is corrected here.
func ReadCells[T any](b *ProcessingBuffer, mapPixel PixelFunc[T]) Cells[T] {
	return reshapeCells(b.frame.ReadPixels(), b.size, b.count, mapPixel)
}
