package analysis

import "math"

// Signature is one cell's frequency-domain descriptor: the per-cell DCT
// block in [frequencyRow][frequencyColumn] order, decoded to signed
// coefficients. Storage clamping bounds every decoded value to [-1, 1].
type Signature [][]float64

// Rows returns the number of frequency rows.
func (s Signature) Rows() int {
	return len(s)
}

// Columns returns the number of frequency columns.
func (s Signature) Columns() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// The DCT shader normalizes each coefficient by 0.25*W*H and re-biases it
// by +0.5 to fit displayable [0,1] storage. DecodeCoefficient applies the
// inverse of that bias; every consumer must go through it before treating
// a stored value as signed.
func DecodeCoefficient(stored float64) float64 {
	return stored - 0.5
}

// EncodeCoefficient is the storage bias applied by the DCT shader, exposed
// for consumers constructing reference signatures.
func EncodeCoefficient(signed float64) float64 {
	return signed + 0.5
}

// DecodeSignaturePixel is the pixel decoder of the DCT pass. Coefficients
// are replicated across the color channels; the red channel is read.
func DecodeSignaturePixel(r, g, b, a uint8) float64 {
	return DecodeCoefficient(float64(r) / 255)
}

// ReferenceSignature computes the DCT pass on the CPU for one cell, with
// the same constants, storage clamp and 8-bit quantization as the shader.
// values holds the per-pixel luminance-alpha products in [0,1], in
// [cellRow][cellColumn] order. This direct per-coefficient form is the
// reference semantics the GPU path is verified against; it also builds
// glyph signatures where no GL context exists.
func ReferenceSignature(values [][]float64) Signature {
	height := len(values)
	if height == 0 {
		return nil
	}
	width := len(values[0])

	sig := make(Signature, height)
	for v := 0; v < height; v++ {
		sig[v] = make([]float64, width)
		for u := 0; u < width; u++ {
			sum := 0.0
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					sum += (values[y][x] - 0.5) *
						math.Cos((2*float64(x)+1)*float64(u)*math.Pi/(2*float64(width))) *
						math.Cos((2*float64(y)+1)*float64(v)*math.Pi/(2*float64(height)))
				}
			}
			stored := EncodeCoefficient(sum / (0.25 * float64(width) * float64(height)))
			if stored < 0 {
				stored = 0
			}
			if stored > 1 {
				stored = 1
			}
			quantized := uint8(math.Round(stored * 255))
			sig[v][u] = DecodeSignaturePixel(quantized, quantized, quantized, 255)
		}
	}
	return sig
}

// SignaturesFromCells collapses a DCT read-back into one Signature per
// cell.
func SignaturesFromCells(cells Cells[float64]) [][]Signature {
	grids := make([][]Signature, cells.Rows())
	for gridRow, row := range cells {
		grids[gridRow] = make([]Signature, len(row))
		for gridCol, cell := range row {
			grids[gridRow][gridCol] = Signature(cell)
		}
	}
	return grids
}
