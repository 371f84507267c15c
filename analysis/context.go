package analysis

import (
	_ "embed"
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/evaleek/cookiecut/engine/glx"
	"github.com/evaleek/cookiecut/engine/util"
)

var (
	//go:embed shader/pass.vert
	passVertexShaderSource string

	//go:embed shader/identity.frag
	identityFragmentShaderSource string

	//go:embed shader/sobel.frag
	sobelFragmentShaderSource string

	//go:embed shader/dct.frag.tmpl
	dctFragmentShaderTemplate string
)

// Uniform indices shared by all passes; the DCT program reuses the Sobel
// layout with bufferSize in place of texelSize.
const (
	uniformSourceImage = 0
	uniformPassParams  = 1
)

// program couples one compiled pass shader with the full-screen triangle
// vertex slice specialized for it.
type program struct {
	shader *glx.Shader
	tri    *glx.VertexSlice
}

func (p *program) destroy() {
	p.tri.Destroy()
	p.shader.Destroy()
}

// Context owns the compiled pass programs for one GL context: the identity
// and Sobel programs, plus a cache of DCT programs keyed by CellSize. It is
// a plain object, never a process-wide singleton, so independent pipelines
// can coexist as long as each has its own GL context.
type Context struct {
	limits   util.DeviceLimits
	identity *program
	sobel    *program
	dct      map[CellSize]*program
	current  *program
}

// NewContext compiles the fixed passes and returns a ready Context. The
// limits are those of the current GL context.
func NewContext(limits util.DeviceLimits) (*Context, error) {
	c := &Context{
		limits: limits,
		dct:    make(map[CellSize]*program),
	}

	var err error
	c.identity, err = c.compile(identityFragmentShaderSource, glx.AttrFormat{
		{Name: "sourceImage", Type: glx.Int},
	})
	if err != nil {
		return nil, err
	}
	c.sobel, err = c.compile(sobelFragmentShaderSource, glx.AttrFormat{
		{Name: "sourceImage", Type: glx.Int},
		{Name: "texelSize", Type: glx.Vec2},
	})
	if err != nil {
		c.identity.destroy()
		return nil, err
	}
	return c, nil
}

// compile builds one pass program and its full-screen triangle. On failure
// every partially created GL object has already been released.
func (c *Context) compile(fragmentSrc string, uniforms glx.AttrFormat) (*program, error) {
	vertexFormat := glx.AttrFormat{
		{Name: "position", Type: glx.Vec2},
	}
	shader, err := glx.NewShader(vertexFormat, uniforms, passVertexShaderSource, fragmentSrc)
	if err != nil {
		return nil, err
	}

	tri := glx.MakeVertexSlice(shader, 3)
	tri.Begin()
	tri.SetVertexData([]float32{
		-1, -1,
		3, -1,
		-1, 3,
	})
	tri.End()

	return &program{shader: shader, tri: tri}, nil
}

func dctFragmentShaderSource(size CellSize) string {
	return fmt.Sprintf(dctFragmentShaderTemplate, size.Width, size.Height)
}

func (c *Context) compileDCT(size CellSize) (*program, error) {
	return c.compile(dctFragmentShaderSource(size), glx.AttrFormat{
		{Name: "sourceImage", Type: glx.Int},
		{Name: "bufferSize", Type: glx.Vec2},
	})
}

// SizeLimit returns the effective device size limit for source textures and
// processing buffers.
func (c *Context) SizeLimit() int {
	return c.limits.SizeLimit()
}

// AddCellSize compiles and caches the DCT program for a cell geometry ahead
// of use. Already-cached sizes are left alone.
func (c *Context) AddCellSize(size CellSize) error {
	if err := checkGeometry(size, CellCount{Columns: 1, Rows: 1}); err != nil {
		return err
	}
	if _, ok := c.dct[size]; ok {
		return nil
	}
	prog, err := c.compileDCT(size)
	if err != nil {
		return err
	}
	c.dct[size] = prog
	return nil
}

// RemoveCellSize evicts one cached DCT program. Evicting a size that is not
// cached is not an error; it only logs a warning.
func (c *Context) RemoveCellSize(size CellSize) {
	prog, ok := c.dct[size]
	if !ok {
		util.LogShaderWarning(fmt.Sprintf("evicting DCT program %s: not cached", size))
		return
	}
	prog.destroy()
	delete(c.dct, size)
}

// ClearDCTPrograms evicts every cached DCT program.
func (c *Context) ClearDCTPrograms() {
	for size, prog := range c.dct {
		prog.destroy()
		delete(c.dct, size)
	}
}

// UseIdentityProgram binds the identity resample program. Pair with
// EndProgram.
func (c *Context) UseIdentityProgram() {
	c.current = c.identity
	c.current.shader.Begin()
}

// UseSobelProgram binds the Sobel gradient program. Pair with EndProgram.
func (c *Context) UseSobelProgram() {
	c.current = c.sobel
	c.current.shader.Begin()
}

// UseDCTProgram binds the DCT program for the given cell geometry, looked
// up by exact (width, height) value. A miss compiles on demand, caches the
// result and logs a notice; misses are expensive but not errors. Pair with
// EndProgram.
func (c *Context) UseDCTProgram(size CellSize) error {
	prog, ok := c.dct[size]
	if !ok {
		util.LogShaderInfo(fmt.Sprintf("DCT program cache miss for %s, compiling", size))
		if err := c.AddCellSize(size); err != nil {
			return err
		}
		prog = c.dct[size]
	}
	c.current = prog
	c.current.shader.Begin()
	return nil
}

// SetUniform sets a uniform of the currently used program.
func (c *Context) SetUniform(index int, value interface{}) {
	c.current.shader.SetUniformAttr(index, value)
}

// DrawFrame issues one full-screen triangle draw against the currently
// used program and bound framebuffer. Every pass redraws through this one
// primitive.
func (c *Context) DrawFrame() {
	if c.current == nil {
		panic("draw frame: no program in use")
	}
	c.current.tri.Begin()
	c.current.tri.Draw()
	c.current.tri.End()
	gl.Flush()
	util.CheckForGLError("draw frame")
}

// EndProgram unbinds the currently used program.
func (c *Context) EndProgram() {
	if c.current != nil {
		c.current.shader.End()
		c.current = nil
	}
}

// Destroy releases every compiled program. The Context must not be used
// afterwards.
func (c *Context) Destroy() {
	c.ClearDCTPrograms()
	c.sobel.destroy()
	c.identity.destroy()
	c.current = nil
}
