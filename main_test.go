package main

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/evaleek/cookiecut/analysis"
	"github.com/evaleek/cookiecut/glyphs"
)

func TestRenderEdgeBiasPromotesEdgeCells(t *testing.T) {
	sigZero := analysis.Signature{{0, 0}, {0, 0}}
	levels := []level{
		{candidates: []glyphs.GlyphSignature{{Glyph: '.', Signature: sigZero}}},
		{candidates: []glyphs.GlyphSignature{{Glyph: '@', Signature: sigZero}}},
	}
	// One mid-dark cell: brightness alone lands in the sparse level.
	colors := [][]mgl32.Vec4{{{0.3, 0.3, 0.3, 1}}}
	signatures := [][]analysis.Signature{{sigZero}}
	gradients := [][]analysis.Gradient{{{Magnitude: 1}}}

	var plain bytes.Buffer
	if err := render(&plain, colors, nil, signatures, levels, glyphs.Lights, 0); err != nil {
		t.Fatal(err)
	}
	if plain.String() != ".\n" {
		t.Errorf("unbiased render = %q, want %q", plain.String(), ".\n")
	}

	// A strong edge with bias pushes the same cell into the dense level.
	var biased bytes.Buffer
	if err := render(&biased, colors, gradients, signatures, levels, glyphs.Lights, 0.5); err != nil {
		t.Fatal(err)
	}
	if biased.String() != "@\n" {
		t.Errorf("edge-biased render = %q, want %q", biased.String(), "@\n")
	}
}

func TestRenderFullyMaskedCellIsBlank(t *testing.T) {
	sigZero := analysis.Signature{{0, 0}, {0, 0}}
	levels := []level{
		{candidates: []glyphs.GlyphSignature{{Glyph: '#', Signature: sigZero}}},
	}
	colors := [][]mgl32.Vec4{{{}}}
	signatures := [][]analysis.Signature{{sigZero}}

	var out bytes.Buffer
	if err := render(&out, colors, nil, signatures, levels, glyphs.Lights, 0); err != nil {
		t.Fatal(err)
	}
	if out.String() != " \n" {
		t.Errorf("masked cell render = %q, want %q", out.String(), " \n")
	}
}

func TestOutputColumns(t *testing.T) {
	if got := outputColumns(120); got != 120 {
		t.Errorf("explicit width: got %d, want 120", got)
	}
	// Terminal width when stdout is a tty, a fixed fallback otherwise;
	// positive either way.
	if got := outputColumns(0); got < 1 {
		t.Errorf("auto width: got %d, want positive", got)
	}
}
