package analysis

import (
	"math"
	"testing"
)

func TestDecodeGradient(t *testing.T) {
	g := DecodeGradient(255, 0, 180, 255)
	if g.X != 1 {
		t.Errorf("X: got %g, want 1", g.X)
	}
	if g.Y != 0 {
		t.Errorf("Y: got %g, want 0", g.Y)
	}
	if math.Abs(g.Magnitude-180.0/255) > 1e-9 {
		t.Errorf("Magnitude: got %g, want %g", g.Magnitude, 180.0/255)
	}
}

func TestMeanGradientsAveragesPerCell(t *testing.T) {
	// Two cells of 2x2 pixels each: one uniform, one mixed.
	uniform := [][]Gradient{
		{{X: 0.5, Y: 0, Magnitude: 0.25}, {X: 0.5, Y: 0, Magnitude: 0.25}},
		{{X: 0.5, Y: 0, Magnitude: 0.25}, {X: 0.5, Y: 0, Magnitude: 0.25}},
	}
	mixed := [][]Gradient{
		{{X: 1, Y: 0, Magnitude: 1}, {X: 0, Y: 1, Magnitude: 0}},
		{{X: 0, Y: 0, Magnitude: 0}, {X: 1, Y: 1, Magnitude: 1}},
	}
	cells := Cells[Gradient]{{uniform, mixed}}

	means := meanGradients(cells)
	if len(means) != 1 || len(means[0]) != 2 {
		t.Fatalf("got %dx%d means, want 1x2", len(means), len(means[0]))
	}

	got := means[0][0]
	if got.X != 0.5 || got.Y != 0 || got.Magnitude != 0.25 {
		t.Errorf("uniform cell: got %+v", got)
	}
	got = means[0][1]
	if got.X != 0.5 || got.Y != 0.5 || got.Magnitude != 0.5 {
		t.Errorf("mixed cell: got %+v", got)
	}
}
