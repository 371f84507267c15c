package glyphs_test

import (
	"runtime"
	"testing"

	"github.com/evaleek/cookiecut/analysis"
	"github.com/evaleek/cookiecut/engine/util"
	"github.com/evaleek/cookiecut/glyphs"
	"github.com/evaleek/cookiecut/match"
)

func TestBuildSignaturesAndSelect(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	_, limits, terminate, err := util.InitOffscreenOpenGL()
	if err != nil {
		t.Skipf("no OpenGL context available: %v", err)
	}
	defer terminate()

	ctx, err := analysis.NewContext(limits)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Destroy()

	cell := analysis.CellSize{Width: 8, Height: 16}
	signatures, err := glyphs.BuildSignatures(ctx, cell, []string{"@", "."}, glyphs.Lights)
	if err != nil {
		t.Fatal(err)
	}
	if len(signatures) != 2 {
		t.Fatalf("got %d signatures, want 2", len(signatures))
	}
	for _, sig := range signatures {
		if sig.Signature.Rows() != cell.Height || sig.Signature.Columns() != cell.Width {
			t.Fatalf("glyph %q: signature shape %dx%d, want %dx%d",
				sig.Glyph, sig.Signature.Columns(), sig.Signature.Rows(), cell.Width, cell.Height)
		}
	}

	// A near-blank cell rendered lights-polarity is almost all dark; it
	// must select the glyph with far less ink coverage.
	blank := make(analysis.Signature, cell.Height)
	for v := range blank {
		blank[v] = make([]float64, cell.Width)
	}
	blank[0][0] = -0.5 // clamped DC of an all-dark cell

	best, err := match.SelectBestGlyph(blank, signatures)
	if err != nil {
		t.Fatal(err)
	}
	if best.Glyph != '.' {
		t.Errorf("near-blank cell picked %q, want '.'", best.Glyph)
	}
}
