package glx

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ShaderError reports a failed compile or link together with the driver's
// info log. A program that failed to build must not be used; NewShader has
// already released every partially created GL object by the time this error
// is returned.
type ShaderError struct {
	Stage string // "vertex", "fragment" or "link"
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("%s shader: %s", e.Stage, e.Log)
}

// Shader is a compiled and linked GLSL program.
type Shader struct {
	program       binder
	vertexFormat  AttrFormat
	uniformFormat AttrFormat
	uniformLoc    []int32
}

// NewShader compiles the vertex and fragment sources and links them into a
// program. The uniform format lists the uniform variables addressable
// through SetUniformAttr, in order.
func NewShader(vertexFmt, uniformFmt AttrFormat, vertexSrc, fragmentSrc string) (*Shader, error) {
	shader := &Shader{
		program: binder{
			restoreLoc: gl.CURRENT_PROGRAM,
			bindFunc: func(obj uint32) {
				gl.UseProgram(obj)
			},
		},
		vertexFormat:  vertexFmt,
		uniformFormat: uniformFmt,
		uniformLoc:    make([]int32, len(uniformFmt)),
	}

	vertex, err := compileStage(gl.VERTEX_SHADER, "vertex", vertexSrc)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vertex)

	fragment, err := compileStage(gl.FRAGMENT_SHADER, "fragment", fragmentSrc)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fragment)

	shader.program.obj = gl.CreateProgram()
	gl.AttachShader(shader.program.obj, vertex)
	gl.AttachShader(shader.program.obj, fragment)
	gl.LinkProgram(shader.program.obj)

	var success int32
	gl.GetProgramiv(shader.program.obj, gl.LINK_STATUS, &success)
	if success == gl.FALSE {
		log := programInfoLog(shader.program.obj)
		gl.DeleteProgram(shader.program.obj)
		return nil, &ShaderError{Stage: "link", Log: log}
	}

	for i, uniform := range uniformFmt {
		loc := gl.GetUniformLocation(shader.program.obj, gl.Str(uniform.Name+"\x00"))
		shader.uniformLoc[i] = loc
	}

	return shader, nil
}

func compileStage(xtype uint32, stage, src string) (uint32, error) {
	obj := gl.CreateShader(xtype)
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(obj, 1, csrc, nil)
	gl.CompileShader(obj)

	var success int32
	gl.GetShaderiv(obj, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(obj, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(obj, logLen, nil, &log[0])
		gl.DeleteShader(obj)
		return 0, &ShaderError{Stage: stage, Log: string(log[:logLen])}
	}
	return obj, nil
}

func programInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	log := make([]byte, logLen+1)
	gl.GetProgramInfoLog(program, logLen, nil, &log[0])
	return string(log[:logLen])
}

// ID returns the OpenGL name of the program.
func (s *Shader) ID() uint32 {
	return s.program.obj
}

// VertexFormat returns the vertex attribute format of this Shader.
func (s *Shader) VertexFormat() AttrFormat {
	return s.vertexFormat
}

// SetUniformAttr sets the value of the uniform at the given index in the
// uniform format. The concrete type of value must match the attribute type:
// int32 for Int, float32 for Float, mgl32.Vec2/Vec3/Vec4 and mgl32.Mat4 for
// the rest. The Shader must be Begin-ed.
func (s *Shader) SetUniformAttr(uniform int, value interface{}) {
	if s.uniformLoc[uniform] < 0 {
		return
	}
	switch s.uniformFormat[uniform].Type {
	case Int:
		value := value.(int32)
		gl.Uniform1iv(s.uniformLoc[uniform], 1, &value)
	case Float:
		value := value.(float32)
		gl.Uniform1fv(s.uniformLoc[uniform], 1, &value)
	case Vec2:
		value := value.(mgl32.Vec2)
		gl.Uniform2fv(s.uniformLoc[uniform], 1, &value[0])
	case Vec3:
		value := value.(mgl32.Vec3)
		gl.Uniform3fv(s.uniformLoc[uniform], 1, &value[0])
	case Vec4:
		value := value.(mgl32.Vec4)
		gl.Uniform4fv(s.uniformLoc[uniform], 1, &value[0])
	case Mat4:
		value := value.(mgl32.Mat4)
		gl.UniformMatrix4fv(s.uniformLoc[uniform], 1, false, &value[0])
	default:
		panic(errors.New("set uniform attr: invalid attribute type"))
	}
}

// Begin binds the program. Required before setting uniforms or drawing.
func (s *Shader) Begin() {
	s.program.bind()
}

// End unbinds the program and restores the previous one.
func (s *Shader) End() {
	s.program.restore()
}

// Destroy releases the program object. The Shader must not be used
// afterwards. Destruction is explicit; nothing here relies on finalizers.
func (s *Shader) Destroy() {
	gl.DeleteProgram(s.program.obj)
	s.program.obj = 0
}
