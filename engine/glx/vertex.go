package glx

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

const sizeOfFloat32 = 4

// VertexSlice is a fixed-size float32 vertex array specialized for one
// Shader's vertex format. It is deliberately minimal: the analysis passes
// only ever draw one static full-screen triangle.
//
// Begin the slice before setting data or drawing, End it afterwards.
type VertexSlice struct {
	vao, vbo binder
	count    int
	format   AttrFormat
	stride   int
	offset   []int
	shader   *Shader
}

// MakeVertexSlice allocates a vertex array for count vertices laid out in
// the shader's vertex format. The array is specialized for that shader and
// cannot be drawn with another one.
func MakeVertexSlice(shader *Shader, count int) *VertexSlice {
	vs := &VertexSlice{
		vao: binder{
			restoreLoc: gl.VERTEX_ARRAY_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindVertexArray(obj)
			},
		},
		vbo: binder{
			restoreLoc: gl.ARRAY_BUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindBuffer(gl.ARRAY_BUFFER, obj)
			},
		},
		count:  count,
		format: shader.VertexFormat(),
		stride: shader.VertexFormat().Size(),
		offset: make([]int, len(shader.VertexFormat())),
		shader: shader,
	}

	offset := 0
	for i, attr := range vs.format {
		switch attr.Type {
		case Float, Vec2, Vec3, Vec4:
		default:
			panic(errors.New("make vertex slice: invalid attribute type"))
		}
		vs.offset[i] = offset
		offset += attr.Type.Size()
	}

	gl.GenVertexArrays(1, &vs.vao.obj)
	vs.vao.bind()

	gl.GenBuffers(1, &vs.vbo.obj)
	defer vs.vbo.bind().restore()

	empty := make([]byte, count*vs.stride)
	gl.BufferData(gl.ARRAY_BUFFER, len(empty), gl.Ptr(empty), gl.STATIC_DRAW)

	for i, attr := range vs.format {
		loc := gl.GetAttribLocation(vs.shader.ID(), gl.Str(attr.Name+"\x00"))
		if loc < 0 {
			continue
		}
		var size int32
		switch attr.Type {
		case Float:
			size = 1
		case Vec2:
			size = 2
		case Vec3:
			size = 3
		case Vec4:
			size = 4
		}
		gl.VertexAttribPointerWithOffset(uint32(loc), size, gl.FLOAT, false, int32(vs.stride), uintptr(vs.offset[i]))
		gl.EnableVertexAttribArray(uint32(loc))
	}

	vs.vao.restore()

	return vs
}

// SetVertexData uploads the full contents of the slice. The data length
// must match count vertices in the shader's vertex format.
func (vs *VertexSlice) SetVertexData(data []float32) {
	if len(data)*sizeOfFloat32 != vs.count*vs.stride {
		panic("set vertex data: wrong length of vertices")
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*sizeOfFloat32, gl.Ptr(data))
}

// Draw draws the whole slice as triangles.
func (vs *VertexSlice) Draw() {
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vs.count))
}

// Begin binds the underlying vertex array and buffer.
func (vs *VertexSlice) Begin() {
	vs.vao.bind()
	vs.vbo.bind()
}

// End restores the previously bound vertex array and buffer.
func (vs *VertexSlice) End() {
	vs.vbo.restore()
	vs.vao.restore()
}

// Destroy releases the vertex array and buffer objects.
func (vs *VertexSlice) Destroy() {
	gl.DeleteVertexArrays(1, &vs.vao.obj)
	gl.DeleteBuffers(1, &vs.vbo.obj)
	vs.vao.obj = 0
	vs.vbo.obj = 0
}
