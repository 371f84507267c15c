package analysis

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/evaleek/cookiecut/engine/util"
)

// DefaultMaskTolerance is the Euclidean distance threshold in normalized
// [0,1] channel space under which a pixel counts as masked.
const DefaultMaskTolerance = 0.06

// Mask defines a color excluded from mean-color aggregation.
type Mask struct {
	Color     mgl32.Vec3
	Tolerance float32
}

// NewMask builds a mask with the default tolerance.
func NewMask(color mgl32.Vec3) Mask {
	return Mask{Color: color, Tolerance: DefaultMaskTolerance}
}

// Excludes reports whether the pixel color falls within the mask tolerance.
// A non-positive or out-of-range tolerance is treated as the default.
func (m Mask) Excludes(rgb mgl32.Vec3) bool {
	t := m.Tolerance
	if t <= 0 || t > 1 {
		t = DefaultMaskTolerance
	}
	return rgb.Sub(m.Color).Len() < t
}

// normalized returns a copy with an out-of-range tolerance clamped to the
// default, logging one notice. Aggregation normalizes its masks up front so
// the notice is not repeated per pixel.
func (m Mask) normalized() Mask {
	if m.Tolerance <= 0 || m.Tolerance > 1 {
		util.LogPipelineWarning(fmt.Sprintf("mask tolerance %g out of range, using %g", m.Tolerance, DefaultMaskTolerance))
		m.Tolerance = DefaultMaskTolerance
	}
	return m
}

func normalizeMasks(masks []Mask) []Mask {
	normalized := make([]Mask, len(masks))
	for i, m := range masks {
		normalized[i] = m.normalized()
	}
	return normalized
}

// DecodeColor is the pixel decoder of the identity pass.
func DecodeColor(r, g, b, a uint8) mgl32.Vec4 {
	return mgl32.Vec4{
		float32(r) / 255,
		float32(g) / 255,
		float32(b) / 255,
		float32(a) / 255,
	}
}

// CellMeans reduces an identity-pass read-back to one mean color per cell.
//
// Pixels within any mask's tolerance are excluded from the RGB mean, which
// is computed over the remaining pixels in premultiplied-alpha space and
// then un-premultiplied. Alpha is the mean over all pixels, masked ones
// included: a heavily masked cell keeps its RGB clean but reports low
// confidence through low alpha. A fully masked cell is the transparent
// zero color, meaning "no data", not black.
func CellMeans(cells Cells[mgl32.Vec4], masks []Mask) [][]mgl32.Vec4 {
	masks = normalizeMasks(masks)
	means := make([][]mgl32.Vec4, cells.Rows())
	for gridRow, row := range cells {
		means[gridRow] = make([]mgl32.Vec4, len(row))
		for gridCol, cell := range row {
			means[gridRow][gridCol] = cellMean(cell, masks)
		}
	}
	return means
}

func cellMean(cell [][]mgl32.Vec4, masks []Mask) mgl32.Vec4 {
	var premul mgl32.Vec3
	var alphaKept, alphaAll float32
	kept, total := 0, 0

	for _, line := range cell {
		for _, px := range line {
			total++
			alphaAll += px.W()
			if masked(px.Vec3(), masks) {
				continue
			}
			kept++
			premul = premul.Add(px.Vec3().Mul(px.W()))
			alphaKept += px.W()
		}
	}

	if kept == 0 || total == 0 {
		return mgl32.Vec4{}
	}

	meanPremul := premul.Mul(1 / float32(kept))
	meanAlphaKept := alphaKept / float32(kept)
	var rgb mgl32.Vec3
	if meanAlphaKept > 0 {
		rgb = meanPremul.Mul(1 / meanAlphaKept)
	}
	return mgl32.Vec4{rgb.X(), rgb.Y(), rgb.Z(), alphaAll / float32(total)}
}

func masked(rgb mgl32.Vec3, masks []Mask) bool {
	for _, m := range masks {
		if m.Excludes(rgb) {
			return true
		}
	}
	return false
}
