package glyphs

import (
	"fmt"
	"image"
	"math"
	"unicode/utf8"

	"github.com/evaleek/cookiecut/analysis"
	"github.com/evaleek/cookiecut/engine/util"
)

// GlyphSignature is one glyph's frequency-domain descriptor, keyed by the
// glyph itself.
type GlyphSignature struct {
	Glyph     rune
	Signature analysis.Signature
}

// atlasSide returns the number of cells per side of the square atlas
// holding n glyphs.
func atlasSide(n int) int {
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// AtlasTooLargeError reports a glyph atlas that exceeds the device size
// limit. Letting the atlas be downsampled instead would shift every glyph
// cell against the analysis grid and corrupt all signatures.
type AtlasTooLargeError struct {
	Width  int
	Height int
	Limit  int
}

func (e *AtlasTooLargeError) Error() string {
	return fmt.Sprintf("glyph atlas %dx%d exceeds the device size limit %d", e.Width, e.Height, e.Limit)
}

func checkAtlas(side int, cell analysis.CellSize, limit int) error {
	if side*cell.Width > limit || side*cell.Height > limit {
		return &AtlasTooLargeError{Width: side * cell.Width, Height: side * cell.Height, Limit: limit}
	}
	return nil
}

// checkChars validates that every input is exactly one code point and
// returns the decoded runes. Duplicate inputs are the caller's problem.
func checkChars(chars []string) ([]rune, error) {
	runes := make([]rune, len(chars))
	for i, s := range chars {
		if utf8.RuneCountInString(s) != 1 {
			return nil, &InvalidCharacterError{Input: s}
		}
		r, _ := utf8.DecodeRuneInString(s)
		runes[i] = r
	}
	return runes, nil
}

// BuildSignatures rasterizes the characters into a synthetic atlas at the
// given cell size, runs the DCT pass over the atlas through the shared
// Context cache and returns one signature per glyph, in input order.
// Trailing unused atlas cells are discarded.
func BuildSignatures(ctx *analysis.Context, cell analysis.CellSize, chars []string, pol Polarity) ([]GlyphSignature, error) {
	if err := checkPolarity(pol); err != nil {
		return nil, err
	}
	runes, err := checkChars(chars)
	if err != nil {
		return nil, err
	}
	if len(runes) == 0 {
		return nil, nil
	}

	rast, err := NewRasterizer(cell)
	if err != nil {
		return nil, err
	}

	side := atlasSide(len(runes))
	if err := checkAtlas(side, cell, ctx.SizeLimit()); err != nil {
		return nil, err
	}
	atlas := image.NewNRGBA(image.Rect(0, 0, side*cell.Width, side*cell.Height))
	for i, ch := range runes {
		x := (i % side) * cell.Width
		y := (i / side) * cell.Height
		if err := rast.DrawGlyph(atlas, x, y, ch, pol); err != nil {
			return nil, err
		}
	}
	util.LogGlyphDebug(fmt.Sprintf("glyph atlas: %d glyphs, %d cells per side", len(runes), side))

	img := analysis.NewImageResource(atlas, ctx.SizeLimit())
	defer img.Destroy()

	analyzer, err := analysis.NewAnalyzer(ctx, cell, analysis.CellCount{Columns: side, Rows: side})
	if err != nil {
		return nil, err
	}
	defer analyzer.Destroy()

	grid, err := analyzer.Signatures(img)
	if err != nil {
		return nil, err
	}

	signatures := make([]GlyphSignature, len(runes))
	for i, ch := range runes {
		signatures[i] = GlyphSignature{
			Glyph:     ch,
			Signature: grid[i/side][i%side],
		}
	}
	return signatures, nil
}
