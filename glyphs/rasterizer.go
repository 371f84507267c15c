package glyphs

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/evaleek/cookiecut/analysis"
)

// Polarity selects whether glyph ink is rendered light-on-dark or
// dark-on-light, matching the cell-value convention of the threshold level
// the glyphs are matched against.
type Polarity int

const (
	PolarityUnset Polarity = iota
	Lights                 // light ink on dark background
	Darks                  // dark ink on light background
)

// MissingPolarityError reports an absent or unrecognized polarity flag.
type MissingPolarityError struct {
	Got Polarity
}

func (e *MissingPolarityError) Error() string {
	return fmt.Sprintf("missing or unknown polarity: %d", int(e.Got))
}

func checkPolarity(pol Polarity) error {
	if pol != Lights && pol != Darks {
		return &MissingPolarityError{Got: pol}
	}
	return nil
}

// InvalidCharacterError reports a glyph input that is not exactly one code
// point.
type InvalidCharacterError struct {
	Input string
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %q: must be exactly one code point", e.Input)
}

// Rasterizer renders single monospace glyphs centered into a fixed pixel
// box. The face is the Go Mono family at the cell height.
type Rasterizer struct {
	face font.Face
	cell analysis.CellSize
}

// NewRasterizer builds a rasterizer for one cell geometry.
func NewRasterizer(cell analysis.CellSize) (*Rasterizer, error) {
	if cell.Width < 1 {
		return nil, &analysis.InvalidGeometryError{What: "glyph cell width", Value: cell.Width}
	}
	if cell.Height < 1 {
		return nil, &analysis.InvalidGeometryError{What: "glyph cell height", Value: cell.Height}
	}
	fnt, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parse monospace font")
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(cell.Height),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(err, "build monospace face")
	}
	return &Rasterizer{face: face, cell: cell}, nil
}

// CellSize returns the pixel box glyphs are rendered into.
func (r *Rasterizer) CellSize() analysis.CellSize {
	return r.cell
}

// dot returns the baseline origin that centers ch inside the cell box.
func (r *Rasterizer) dot(ch rune) fixed.Point26_6 {
	adv, _ := r.face.GlyphAdvance(ch)
	m := r.face.Metrics()
	return fixed.Point26_6{
		X: fixed.I(r.cell.Width)/2 - adv/2,
		Y: fixed.I(r.cell.Height)/2 + (m.Ascent-m.Descent)/2,
	}
}

// DrawGlyph renders ch centered into dst at the given pixel offset, using
// the ink and background colors of the polarity. dst must already be
// allocated; only the cell box at (x, y) is touched.
func (r *Rasterizer) DrawGlyph(dst draw.Image, x, y int, ch rune, pol Polarity) error {
	if err := checkPolarity(pol); err != nil {
		return err
	}
	ink, background := color.Color(color.White), color.Color(color.Black)
	if pol == Darks {
		ink, background = background, ink
	}

	box := image.Rect(x, y, x+r.cell.Width, y+r.cell.Height)
	draw.Draw(dst, box, image.NewUniform(background), image.Point{}, draw.Src)

	dot := r.dot(ch)
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: r.face,
		Dot:  fixed.Point26_6{X: dot.X + fixed.I(x), Y: dot.Y + fixed.I(y)},
	}
	drawer.DrawString(string(ch))
	return nil
}

// Glyph renders one centered glyph into a fresh cell-sized image.
func (r *Rasterizer) Glyph(ch rune, pol Polarity) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, r.cell.Width, r.cell.Height))
	if err := r.DrawGlyph(img, 0, 0, ch, pol); err != nil {
		return nil, err
	}
	return img, nil
}

// Coverage returns the fraction of the cell box covered by glyph ink, in
// [0,1]. Used to order ramp glyphs from sparse to dense.
func (r *Rasterizer) Coverage(ch rune) float64 {
	mask := image.NewAlpha(image.Rect(0, 0, r.cell.Width, r.cell.Height))
	drawer := font.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(color.Alpha{A: 0xff}),
		Face: r.face,
		Dot:  r.dot(ch),
	}
	drawer.DrawString(string(ch))

	var sum uint64
	for _, a := range mask.Pix {
		sum += uint64(a)
	}
	return float64(sum) / float64(len(mask.Pix)*0xff)
}
