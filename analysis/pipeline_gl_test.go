package analysis_test

import (
	"image"
	"image/color"
	"math"
	"runtime"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/evaleek/cookiecut/analysis"
	"github.com/evaleek/cookiecut/engine/util"
)

// withGL runs fn with a live offscreen context, skipping the test on
// machines without one. GL work stays on one locked thread.
func withGL(t *testing.T, fn func(limits util.DeviceLimits)) {
	t.Helper()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	_, limits, terminate, err := util.InitOffscreenOpenGL()
	if err != nil {
		t.Skipf("no OpenGL context available: %v", err)
	}
	defer terminate()
	fn(limits)
}

func checkerboard() *image.NRGBA {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := red
			if (x/2+y/2)%2 == 1 {
				c = blue
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestEndToEndCheckerboardMeans(t *testing.T) {
	withGL(t, func(limits util.DeviceLimits) {
		ctx, err := analysis.NewContext(limits)
		if err != nil {
			t.Fatal(err)
		}
		defer ctx.Destroy()

		res := analysis.NewImageResource(checkerboard(), limits.SizeLimit())
		defer res.Destroy()

		analyzer, err := analysis.NewAnalyzer(ctx,
			analysis.CellSize{Width: 2, Height: 2},
			analysis.CellCount{Columns: 2, Rows: 2})
		if err != nil {
			t.Fatal(err)
		}
		defer analyzer.Destroy()

		means := analyzer.Colors(res, nil)

		red := mgl32.Vec4{1, 0, 0, 1}
		blue := mgl32.Vec4{0, 0, 1, 1}
		want := [][]mgl32.Vec4{{red, blue}, {blue, red}}
		for r := range want {
			for c := range want[r] {
				got := means[r][c]
				for i := 0; i < 4; i++ {
					if math.Abs(float64(got[i]-want[r][c][i])) > 1.0/255 {
						t.Errorf("cell (%d,%d): got %v, want %v", r, c, got, want[r][c])
					}
				}
			}
		}
	})
}

func TestEndToEndReadbackTopLeft(t *testing.T) {
	withGL(t, func(limits util.DeviceLimits) {
		ctx, err := analysis.NewContext(limits)
		if err != nil {
			t.Fatal(err)
		}
		defer ctx.Destroy()

		// Pixel (x,y) tagged with its own coordinates, scaled to be
		// distinguishable after 8-bit storage.
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 60), A: 255})
			}
		}
		res := analysis.NewImageResource(img, limits.SizeLimit())
		defer res.Destroy()

		analyzer, err := analysis.NewAnalyzer(ctx,
			analysis.CellSize{Width: 2, Height: 2},
			analysis.CellCount{Columns: 2, Rows: 2})
		if err != nil {
			t.Fatal(err)
		}
		defer analyzer.Destroy()

		cells := analyzer.ColorCells(res)
		topLeft := cells[0][0][0][0]
		if topLeft.X() != 0 || topLeft.Y() != 0 {
			t.Errorf("grid (0,0) cell (0,0) = %v, want the (0,0) source pixel", topLeft)
		}
		// Bottom-right grid cell, bottom-right pixel = source (3,3).
		bottomRight := cells[1][1][1][1]
		if math.Abs(float64(bottomRight.X())-180.0/255) > 1.0/255 ||
			math.Abs(float64(bottomRight.Y())-180.0/255) > 1.0/255 {
			t.Errorf("grid (1,1) cell (1,1) = %v, want the (3,3) source pixel", bottomRight)
		}
	})
}

func TestEndToEndConstantCellDCT(t *testing.T) {
	withGL(t, func(limits util.DeviceLimits) {
		ctx, err := analysis.NewContext(limits)
		if err != nil {
			t.Fatal(err)
		}
		defer ctx.Destroy()

		gray := image.NewNRGBA(image.Rect(0, 0, 8, 8))
		for i := 0; i < len(gray.Pix); i += 4 {
			gray.Pix[i] = 128
			gray.Pix[i+1] = 128
			gray.Pix[i+2] = 128
			gray.Pix[i+3] = 255
		}
		res := analysis.NewImageResource(gray, limits.SizeLimit())
		defer res.Destroy()

		analyzer, err := analysis.NewAnalyzer(ctx,
			analysis.CellSize{Width: 4, Height: 4},
			analysis.CellCount{Columns: 2, Rows: 2})
		if err != nil {
			t.Fatal(err)
		}
		defer analyzer.Destroy()

		signatures, err := analyzer.Signatures(res)
		if err != nil {
			t.Fatal(err)
		}

		// Constant luminance ~0.5: every coefficient, DC included, decodes
		// to ~0. Allow a couple of quanta for 128/255 not being exactly
		// half plus shader rounding.
		tolerance := 3.0 / 255
		for r, row := range signatures {
			for c, sig := range row {
				for v := range sig {
					for u := range sig[v] {
						if math.Abs(sig[v][u]) > tolerance {
							t.Errorf("cell (%d,%d) coefficient (%d,%d) = %g, want ~0",
								r, c, u, v, sig[v][u])
						}
					}
				}
			}
		}
	})
}

func TestDCTProgramCacheMissCompilesOnDemand(t *testing.T) {
	withGL(t, func(limits util.DeviceLimits) {
		ctx, err := analysis.NewContext(limits)
		if err != nil {
			t.Fatal(err)
		}
		defer ctx.Destroy()

		size := analysis.CellSize{Width: 6, Height: 6}
		// Never AddCellSize-d: the first use must compile on demand.
		if err := ctx.UseDCTProgram(size); err != nil {
			t.Fatalf("on-demand compile failed: %v", err)
		}
		ctx.EndProgram()

		// Eviction of a missing key only warns.
		ctx.RemoveCellSize(analysis.CellSize{Width: 99, Height: 99})
		ctx.RemoveCellSize(size)
		ctx.ClearDCTPrograms()
	})
}

func TestEndToEndVerticalEdgeGradients(t *testing.T) {
	withGL(t, func(limits util.DeviceLimits) {
		ctx, err := analysis.NewContext(limits)
		if err != nil {
			t.Fatal(err)
		}
		defer ctx.Destroy()

		// Hard vertical edge: left half black, right half white. The
		// buffer matches the image size so sampling is one-to-one.
		img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				c := color.NRGBA{A: 255}
				if x >= 4 {
					c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
				}
				img.SetNRGBA(x, y, c)
			}
		}
		res := analysis.NewImageResource(img, limits.SizeLimit())
		defer res.Destroy()

		analyzer, err := analysis.NewAnalyzer(ctx,
			analysis.CellSize{Width: 8, Height: 8},
			analysis.CellCount{Columns: 1, Rows: 1})
		if err != nil {
			t.Fatal(err)
		}
		defer analyzer.Destroy()

		cells := analyzer.GradientCells(res)
		if util.CheckForGLError("gradient pass") {
			t.Error("gradient pass left a pending GL error")
		}
		cell := cells[0][0]

		tolerance := 2.0 / 255

		// A pixel touching the seam sees the full kernel response: gx has
		// the white column on one side and black on the other, so the
		// normalized sum is 1, gy cancels, and the magnitude is 1/sqrt(2).
		seam := cell[4][3]
		if math.Abs(seam.X-1) > tolerance {
			t.Errorf("seam gx = %g, want ~1", seam.X)
		}
		if math.Abs(seam.Y) > tolerance {
			t.Errorf("seam gy = %g, want ~0", seam.Y)
		}
		if math.Abs(seam.Magnitude-1/math.Sqrt(2)) > tolerance {
			t.Errorf("seam magnitude = %g, want ~%g", seam.Magnitude, 1/math.Sqrt(2))
		}

		// Flat regions on both sides read back as zero gradient. Edge
		// clamping keeps the border rows flat as well.
		for _, flat := range []analysis.Gradient{cell[4][1], cell[4][6], cell[0][0], cell[7][7]} {
			if math.Abs(flat.X) > tolerance || math.Abs(flat.Y) > tolerance ||
				math.Abs(flat.Magnitude) > tolerance {
				t.Errorf("flat region gradient = %+v, want ~zero", flat)
			}
		}
	})
}
