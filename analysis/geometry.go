package analysis

import (
	"fmt"
	"math"

	"github.com/evaleek/cookiecut/engine/util"
)

// CellSize is the pixel extent of one analysis cell. It identifies the DCT
// program variant compiled for that geometry and is used as a cache key, so
// it must stay a plain comparable value type.
type CellSize struct {
	Width  int
	Height int
}

func (s CellSize) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s CellSize) Area() int {
	return s.Width * s.Height
}

func (s CellSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// CellCount is the extent of a cell grid, independent of CellSize.
type CellCount struct {
	Columns int
	Rows    int
}

func (c CellCount) Valid() bool {
	return c.Columns > 0 && c.Rows > 0
}

func (c CellCount) Cells() int {
	return c.Columns * c.Rows
}

func (c CellCount) String() string {
	return fmt.Sprintf("%dc x %dr", c.Columns, c.Rows)
}

// InvalidGeometryError reports a non-positive cell size or cell count.
type InvalidGeometryError struct {
	What  string
	Value int
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s must be positive, got %d", e.What, e.Value)
}

func checkGeometry(size CellSize, count CellCount) error {
	switch {
	case size.Width <= 0:
		return &InvalidGeometryError{What: "cell width", Value: size.Width}
	case size.Height <= 0:
		return &InvalidGeometryError{What: "cell height", Value: size.Height}
	case count.Columns <= 0:
		return &InvalidGeometryError{What: "columns", Value: count.Columns}
	case count.Rows <= 0:
		return &InvalidGeometryError{What: "rows", Value: count.Rows}
	}
	return nil
}

// ClampCellSize rounds fractional cell dimensions to the nearest pixel and
// clamps them to at least one. Out-of-range numeric input degrades with a
// notice instead of failing; only structurally invalid values are errors.
func ClampCellSize(width, height float64) CellSize {
	w := int(math.Round(width))
	h := int(math.Round(height))
	clamped := false
	if w < 1 {
		w = 1
		clamped = true
	}
	if h < 1 {
		h = 1
		clamped = true
	}
	if clamped || float64(w) != width || float64(h) != height {
		util.LogPipelineWarning(fmt.Sprintf("cell size %gx%g adjusted to %dx%d", width, height, w, h))
	}
	return CellSize{Width: w, Height: h}
}
