package glx

import (
	"github.com/go-gl/gl/v3.3-core/gl"
)

// Init initializes the OpenGL bindings. Call once from the thread that owns
// the current GL context, after the context has been made current.
func Init() {
	if err := gl.Init(); err != nil {
		panic(err)
	}
}

// Clear fills the currently bound render target with a color.
func Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}
