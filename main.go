package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/faiface/mainthread"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/term"

	"github.com/evaleek/cookiecut/analysis"
	"github.com/evaleek/cookiecut/engine/util"
	"github.com/evaleek/cookiecut/glyphs"
	"github.com/evaleek/cookiecut/match"
)

const (
	defaultRamp    = " .:-=+*#%@"
	defaultColumns = 80
)

type maskFlag struct {
	masks []analysis.Mask
}

func (m *maskFlag) String() string {
	return fmt.Sprintf("%d masks", len(m.masks))
}

func (m *maskFlag) Set(value string) error {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) != 6 {
		return fmt.Errorf("mask color %q: want #rrggbb", value)
	}
	var rgb [3]float32
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return fmt.Errorf("mask color %q: %v", value, err)
		}
		rgb[i] = float32(v) / 255
	}
	m.masks = append(m.masks, analysis.NewMask(mgl32.Vec3{rgb[0], rgb[1], rgb[2]}))
	return nil
}

type options struct {
	imagePath  string
	cellWidth  float64
	cellHeight float64
	columns    int
	chars      string
	dark       bool
	edgeBias   float64
	masks      maskFlag
	verbose    bool
}

func main() {
	var opt options
	flag.StringVar(&opt.imagePath, "image", "", "source image (png, jpeg or gif)")
	flag.Float64Var(&opt.cellWidth, "cell-width", 8, "analysis cell width in pixels")
	flag.Float64Var(&opt.cellHeight, "cell-height", 16, "analysis cell height in pixels")
	flag.IntVar(&opt.columns, "columns", 0, "output width in characters (0 = terminal width)")
	flag.StringVar(&opt.chars, "chars", defaultRamp, "glyph candidates, sparse to dense")
	flag.BoolVar(&opt.dark, "dark", false, "match dark glyphs on a light background")
	flag.Float64Var(&opt.edgeBias, "edge-bias", 0, "weight of the cell edge magnitude when picking a ramp level, 0 to 1 (0 = off)")
	flag.Var(&opt.masks, "mask", "color to exclude from cell means, #rrggbb (repeatable)")
	flag.BoolVar(&opt.verbose, "v", false, "debug logging")
	flag.Parse()

	if opt.imagePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if opt.verbose {
		util.GLOBAL_LOG_LEVEL = util.LogLevelInfo
	}

	mainthread.Run(func() {
		mainthread.Call(func() {
			if err := run(opt); err != nil {
				fmt.Fprintln(os.Stderr, "cookiecut:", err)
				os.Exit(1)
			}
		})
	})
}

func run(opt options) error {
	file, err := os.Open(opt.imagePath)
	if err != nil {
		return err
	}
	src, _, err := image.Decode(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", opt.imagePath, err)
	}

	_, limits, terminate, err := util.InitOffscreenOpenGL()
	if err != nil {
		return fmt.Errorf("init OpenGL: %w", err)
	}
	defer terminate()

	ctx, err := analysis.NewContext(limits)
	if err != nil {
		return err
	}
	defer ctx.Destroy()

	res := analysis.NewImageResource(src, limits.SizeLimit())
	defer res.Destroy()
	if res.Clipped {
		fmt.Fprintf(os.Stderr, "cookiecut: source downsampled from %dx%d to %dx%d to fit the device\n",
			res.OriginalWidth, res.OriginalHeight, res.Width, res.Height)
	}

	cell := analysis.ClampCellSize(opt.cellWidth, opt.cellHeight)
	count := gridFor(res, cell, outputColumns(opt.columns))

	analyzer, err := analysis.NewAnalyzer(ctx, cell, count)
	if err != nil {
		return err
	}
	defer analyzer.Destroy()

	colors := analyzer.Colors(res, opt.masks.masks)
	signatures, err := analyzer.Signatures(res)
	if err != nil {
		return err
	}
	var gradients [][]analysis.Gradient
	if opt.edgeBias > 0 {
		gradients = analyzer.MeanGradients(res)
	}

	polarity := glyphs.Lights
	if opt.dark {
		polarity = glyphs.Darks
	}
	levels, err := buildLevels(ctx, cell, opt.chars, polarity)
	if err != nil {
		return err
	}

	return render(os.Stdout, colors, gradients, signatures, levels, polarity, opt.edgeBias)
}

// outputColumns resolves the output width: an explicit flag value wins,
// otherwise the current terminal width, otherwise a fixed fallback when
// stdout is not a terminal.
func outputColumns(requested int) int {
	if requested > 0 {
		return requested
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultColumns
}

// gridFor derives the cell grid covering the image at the requested output
// width, keeping the image aspect ratio under the cell aspect ratio.
func gridFor(res *analysis.ImageResource, cell analysis.CellSize, columns int) analysis.CellCount {
	if columns < 1 {
		columns = 1
	}
	rows := int(math.Round(
		float64(res.Height) / float64(res.Width) *
			float64(columns) * float64(cell.Width) / float64(cell.Height)))
	if rows < 1 {
		rows = 1
	}
	return analysis.CellCount{Columns: columns, Rows: rows}
}

// level groups glyph candidates of similar ink coverage; cells pick their
// level by mean value and their glyph by signature distance within it.
type level struct {
	candidates []glyphs.GlyphSignature
}

func buildLevels(ctx *analysis.Context, cell analysis.CellSize, ramp string, pol glyphs.Polarity) ([]level, error) {
	runes := []rune(ramp)
	if len(runes) == 0 {
		runes = []rune(defaultRamp)
	}
	chars := make([]string, len(runes))
	for i, r := range runes {
		chars[i] = string(r)
	}

	signatures, err := glyphs.BuildSignatures(ctx, cell, chars, pol)
	if err != nil {
		return nil, err
	}

	rast, err := glyphs.NewRasterizer(cell)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(signatures, func(i, j int) bool {
		return rast.Coverage(signatures[i].Glyph) < rast.Coverage(signatures[j].Glyph)
	})

	// One level per glyph up to a handful; denser ramps share levels so
	// each level carries several candidates for signature matching.
	levelCount := len(signatures)
	if levelCount > 8 {
		levelCount = 8
	}
	levels := make([]level, levelCount)
	for i, sig := range signatures {
		idx := i * levelCount / len(signatures)
		levels[idx].candidates = append(levels[idx].candidates, sig)
	}
	return levels, nil
}

// render emits one glyph per cell. A positive edgeBias adds the cell's mean
// gradient magnitude to the value used for level selection, so edge cells
// compete in denser ramp levels than their brightness alone would pick.
func render(out io.Writer, colors [][]mgl32.Vec4, gradients [][]analysis.Gradient, signatures [][]analysis.Signature, levels []level, pol glyphs.Polarity, edgeBias float64) error {
	var sb strings.Builder
	for gridRow := range colors {
		for gridCol := range colors[gridRow] {
			mean := colors[gridRow][gridCol]
			if mean.W() == 0 {
				// fully masked cell: no data
				sb.WriteRune(' ')
				continue
			}
			value := float64(mean.Vec3().Len()) / math.Sqrt(3) * float64(mean.W())
			if pol == glyphs.Darks {
				value = 1 - value
			}
			if gradients != nil && edgeBias > 0 {
				value += edgeBias * gradients[gridRow][gridCol].Magnitude
				if value > 1 {
					value = 1
				}
			}
			idx := int(value * float64(len(levels)))
			if idx >= len(levels) {
				idx = len(levels) - 1
			}
			best, err := match.SelectBestGlyph(signatures[gridRow][gridCol], levels[idx].candidates)
			if err != nil {
				return err
			}
			sb.WriteRune(best.Glyph)
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(out, sb.String())
	return err
}
