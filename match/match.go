// Package match selects the best glyph for a cell by comparing
// frequency-domain signatures. It has no GPU dependency; both inputs are
// plain numeric grids.
package match

import (
	"gonum.org/v1/gonum/floats"

	"github.com/evaleek/cookiecut/analysis"
	"github.com/evaleek/cookiecut/glyphs"
)

// EmptyCandidateSetError reports selection over zero candidates, a caller
// contract violation.
type EmptyCandidateSetError struct{}

func (e *EmptyCandidateSetError) Error() string {
	return "empty glyph candidate set"
}

// Weights returns the spatial de-weighting grid for a signature shape:
// w(row, col) = 1 - (row+col)/(maxRow+maxCol+1). Coefficients farther out
// in either frequency axis count less; the extra +1 in the denominator
// keeps even the farthest coefficient at a nonzero weight.
func Weights(rows, cols int) []float64 {
	w := make([]float64, rows*cols)
	denom := float64(rows - 1 + cols - 1 + 1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			w[r*cols+c] = 1 - float64(r+c)/denom
		}
	}
	return w
}

// Distance is the L1 distance between two equal-shaped signatures after
// spatial de-weighting. It favors agreement on coarse shape over fine
// detail; it is cheap, not perceptual. Mismatched shapes are a caller
// contract violation.
func Distance(a, b analysis.Signature) float64 {
	rows, cols := a.Rows(), a.Columns()
	if rows != b.Rows() || cols != b.Columns() {
		panic("signature distance: shape mismatch")
	}
	if rows == 0 || cols == 0 {
		return 0
	}

	weights := Weights(rows, cols)
	u := make([]float64, 0, rows*cols)
	v := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			w := weights[r*cols+c]
			u = append(u, a[r][c]*w)
			v = append(v, b[r][c]*w)
		}
	}
	return floats.Distance(u, v, 1)
}

// SelectBestGlyph returns the candidate whose signature is closest to the
// cell signature. Ties resolve to the first candidate in input order.
func SelectBestGlyph(cell analysis.Signature, candidates []glyphs.GlyphSignature) (glyphs.GlyphSignature, error) {
	if len(candidates) == 0 {
		return glyphs.GlyphSignature{}, &EmptyCandidateSetError{}
	}
	best := candidates[0]
	bestDist := Distance(cell, best.Signature)
	for _, candidate := range candidates[1:] {
		if d := Distance(cell, candidate.Signature); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best, nil
}
