package analysis

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/evaleek/cookiecut/engine/util"
)

// Gradient is the Sobel pass output for one pixel: the two kernel responses
// and the normalized gradient magnitude, all decoded from [0,1] storage.
type Gradient struct {
	X         float64
	Y         float64
	Magnitude float64
}

// DecodeGradient is the pixel decoder of the Sobel pass.
func DecodeGradient(r, g, b, a uint8) Gradient {
	return Gradient{
		X:         float64(r) / 255,
		Y:         float64(g) / 255,
		Magnitude: float64(b) / 255,
	}
}

// Analyzer runs the three analysis passes over one fixed cell geometry. It
// owns one ProcessingBuffer of that geometry and shares the Context's
// program cache. Passes are synchronous: each one draws and then blocks on
// the read-back before returning.
type Analyzer struct {
	ctx   *Context
	size  CellSize
	count CellCount
	buf   *ProcessingBuffer
}

// NewAnalyzer allocates the processing buffer for the given geometry and
// pre-populates the DCT program cache for it.
func NewAnalyzer(ctx *Context, size CellSize, count CellCount) (*Analyzer, error) {
	buf, err := NewProcessingBuffer(size, count)
	if err != nil {
		return nil, err
	}
	if err := ctx.AddCellSize(size); err != nil {
		buf.Destroy()
		return nil, err
	}
	util.LogPipelineDebug(fmt.Sprintf("analyzer ready: cell %s, grid %s", size, count))
	return &Analyzer{ctx: ctx, size: size, count: count, buf: buf}, nil
}

// CellSize returns the analyzer's cell geometry.
func (a *Analyzer) CellSize() CellSize {
	return a.size
}

// CellCount returns the analyzer's grid extent.
func (a *Analyzer) CellCount() CellCount {
	return a.count
}

// pass binds the image texture on unit 0, enables the buffer, selects the
// pass program via use, sets uniforms and issues the one full-screen draw.
func (a *Analyzer) pass(img *ImageResource, use func() error, setUniforms func()) error {
	gl.ActiveTexture(gl.TEXTURE0)
	img.Texture().Begin()
	a.buf.Enable()
	defer func() {
		a.buf.Disable()
		img.Texture().End()
	}()

	if err := use(); err != nil {
		return err
	}
	a.ctx.SetUniform(uniformSourceImage, int32(0))
	setUniforms()
	a.ctx.DrawFrame()
	a.ctx.EndProgram()
	return nil
}

func (a *Analyzer) useFixed(use func()) func() error {
	return func() error {
		use()
		return nil
	}
}

// ColorCells runs the identity resample pass and returns the raw per-cell
// colors. The sampler performs any minification or magnification needed to
// bring the image to grid resolution.
func (a *Analyzer) ColorCells(img *ImageResource) Cells[mgl32.Vec4] {
	_ = a.pass(img, a.useFixed(a.ctx.UseIdentityProgram), func() {})
	return ReadCells(a.buf, DecodeColor)
}

// Colors runs the identity pass and aggregates masked per-cell mean
// colors.
func (a *Analyzer) Colors(img *ImageResource, masks []Mask) [][]mgl32.Vec4 {
	return CellMeans(a.ColorCells(img), masks)
}

// GradientCells runs the Sobel pass and returns per-pixel gradients grouped
// by cell.
func (a *Analyzer) GradientCells(img *ImageResource) Cells[Gradient] {
	_ = a.pass(img, a.useFixed(a.ctx.UseSobelProgram), func() {
		a.ctx.SetUniform(uniformPassParams, mgl32.Vec2{
			1 / float32(a.buf.Width()),
			1 / float32(a.buf.Height()),
		})
	})
	return ReadCells(a.buf, DecodeGradient)
}

// MeanGradients reduces the Sobel read-back to one mean gradient per cell.
func (a *Analyzer) MeanGradients(img *ImageResource) [][]Gradient {
	return meanGradients(a.GradientCells(img))
}

func meanGradients(cells Cells[Gradient]) [][]Gradient {
	means := make([][]Gradient, cells.Rows())
	for gridRow, row := range cells {
		means[gridRow] = make([]Gradient, len(row))
		for gridCol, cell := range row {
			var sum Gradient
			n := 0
			for _, line := range cell {
				for _, g := range line {
					sum.X += g.X
					sum.Y += g.Y
					sum.Magnitude += g.Magnitude
					n++
				}
			}
			if n > 0 {
				sum.X /= float64(n)
				sum.Y /= float64(n)
				sum.Magnitude /= float64(n)
			}
			means[gridRow][gridCol] = sum
		}
	}
	return means
}

// Signatures runs the DCT pass and returns one frequency signature per
// cell.
func (a *Analyzer) Signatures(img *ImageResource) ([][]Signature, error) {
	err := a.pass(img, func() error {
		return a.ctx.UseDCTProgram(a.size)
	}, func() {
		a.ctx.SetUniform(uniformPassParams, mgl32.Vec2{
			float32(a.buf.Width()),
			float32(a.buf.Height()),
		})
	})
	if err != nil {
		return nil, err
	}
	return SignaturesFromCells(ReadCells(a.buf, DecodeSignaturePixel)), nil
}

// Destroy releases the analyzer's processing buffer. The shared Context is
// left alone.
func (a *Analyzer) Destroy() {
	a.buf.Destroy()
}
