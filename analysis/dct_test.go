package analysis

import (
	"math"
	"testing"
)

func constantCell(width, height int, value float64) [][]float64 {
	cell := make([][]float64, height)
	for y := range cell {
		cell[y] = make([]float64, width)
		for x := range cell[y] {
			cell[y][x] = value
		}
	}
	return cell
}

func TestCoefficientCodecRoundTrip(t *testing.T) {
	for _, signed := range []float64{-0.5, -0.1, 0, 0.25, 0.5} {
		got := DecodeCoefficient(EncodeCoefficient(signed))
		if math.Abs(got-signed) > 1e-12 {
			t.Errorf("codec round trip of %g gave %g", signed, got)
		}
	}
	if EncodeCoefficient(0) != 0.5 {
		t.Error("zero coefficient must store as the 0.5 bias value")
	}
}

// A constant cell has all its energy in the DC coefficient: the DC value
// is the biased, normalized encoding of the constant and every other
// coefficient stores the zero-bias value.
func TestReferenceSignatureConstantCell(t *testing.T) {
	quantum := 1.0 / 255

	for _, size := range []CellSize{
		{Width: 4, Height: 4},
		{Width: 8, Height: 8},
		{Width: 8, Height: 16},
		{Width: 5, Height: 7},
	} {
		for _, value := range []float64{0.4, 0.5, 0.55, 0.6} {
			sig := ReferenceSignature(constantCell(size.Width, size.Height, value))

			// sum = W*H*(value-0.5); normalized by 0.25*W*H.
			wantDC := 4 * (value - 0.5)
			if wantDC > 0.5 {
				wantDC = 0.5 // storage clamp
			}
			if wantDC < -0.5 {
				wantDC = -0.5
			}
			if got := sig[0][0]; math.Abs(got-wantDC) > quantum {
				t.Errorf("cell %s value %g: DC = %g, want %g", size, value, got, wantDC)
			}

			for v := range sig {
				for u := range sig[v] {
					if u == 0 && v == 0 {
						continue
					}
					if got := sig[v][u]; math.Abs(got) > quantum {
						t.Errorf("cell %s value %g: AC (%d,%d) = %g, want 0", size, value, u, v, got)
					}
				}
			}
		}
	}
}

// A vertically split cell excites only horizontal frequencies: every
// coefficient with a nonzero vertical index stays at zero.
func TestReferenceSignatureVerticalSplit(t *testing.T) {
	size := CellSize{Width: 8, Height: 8}
	cell := constantCell(size.Width, size.Height, 0.35)
	for y := 0; y < size.Height; y++ {
		for x := size.Width / 2; x < size.Width; x++ {
			cell[y][x] = 0.65
		}
	}

	sig := ReferenceSignature(cell)
	quantum := 1.0 / 255
	for v := 1; v < size.Height; v++ {
		for u := 0; u < size.Width; u++ {
			if math.Abs(sig[v][u]) > quantum {
				t.Errorf("vertical frequency (%d,%d) = %g, want 0", u, v, sig[v][u])
			}
		}
	}
	// The fundamental horizontal frequency must carry energy.
	if math.Abs(sig[0][1]) <= quantum {
		t.Error("horizontal fundamental expected to be nonzero")
	}
}
