package analysis

// Cells is the canonical read-back shape of every pass: per-cell pixel
// blocks ordered [gridRow][gridColumn][cellRow][cellColumn], grid row 0
// being the top of the logical image.
type Cells[T any] [][][][]T

// Rows returns the number of grid rows.
func (c Cells[T]) Rows() int {
	return len(c)
}

// Columns returns the number of grid columns.
func (c Cells[T]) Columns() int {
	if len(c) == 0 {
		return 0
	}
	return len(c[0])
}

// PixelFunc decodes one raw RGBA8 pixel into a per-pass value.
type PixelFunc[T any] func(r, g, b, a uint8) T

// reshapeCells converts a raw glReadPixels buffer into Cells, applying
// mapPixel to every pixel. The buffer is bottom-row-first as OpenGL stores
// it; row indices are flipped here so that grid row 0 and cell row 0
// correspond to the top of the logical image. Every downstream consumer
// depends on this ordering being exact.
func reshapeCells[T any](pix []uint8, size CellSize, count CellCount, mapPixel PixelFunc[T]) Cells[T] {
	width := size.Width * count.Columns
	height := size.Height * count.Rows
	if len(pix) != width*height*4 {
		panic("reshape cells: pixel buffer does not match geometry")
	}

	grid := make(Cells[T], count.Rows)
	for gridRow := 0; gridRow < count.Rows; gridRow++ {
		row := make([][][]T, count.Columns)
		for gridCol := 0; gridCol < count.Columns; gridCol++ {
			cell := make([][]T, size.Height)
			for cellRow := 0; cellRow < size.Height; cellRow++ {
				line := make([]T, size.Width)
				// y counted from the top of the image, flipped into the
				// bottom-first buffer.
				y := gridRow*size.Height + cellRow
				bufferY := height - 1 - y
				base := (bufferY*width + gridCol*size.Width) * 4
				for cellCol := 0; cellCol < size.Width; cellCol++ {
					o := base + cellCol*4
					line[cellCol] = mapPixel(pix[o], pix[o+1], pix[o+2], pix[o+3])
				}
				cell[cellRow] = line
			}
			row[gridCol] = cell
		}
		grid[gridRow] = row
	}
	return grid
}
