package util

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/evaleek/cookiecut/engine/glx"
)

// DeviceLimits holds the device maxima relevant to off-screen analysis.
type DeviceLimits struct {
	MaxTextureSize    int
	MaxViewportWidth  int
	MaxViewportHeight int
}

// SizeLimit returns the effective maximum dimension for textures and render
// targets: the smaller of the texture and viewport maxima.
func (l DeviceLimits) SizeLimit() int {
	limit := l.MaxTextureSize
	if l.MaxViewportWidth < limit {
		limit = l.MaxViewportWidth
	}
	if l.MaxViewportHeight < limit {
		limit = l.MaxViewportHeight
	}
	return limit
}

// QueryDeviceLimits reads the limits of the current GL context.
func QueryDeviceLimits() DeviceLimits {
	var maxTexture int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxTexture)
	var maxViewport [2]int32
	gl.GetIntegerv(gl.MAX_VIEWPORT_DIMS, &maxViewport[0])
	return DeviceLimits{
		MaxTextureSize:    int(maxTexture),
		MaxViewportWidth:  int(maxViewport[0]),
		MaxViewportHeight: int(maxViewport[1]),
	}
}

// InitOffscreenOpenGL creates a hidden window, makes its 3.3 core context
// current on the calling thread and initializes the GL bindings. It returns
// the window, the device limits and a terminate function. The caller must
// stay on the same OS thread for all GL work.
func InitOffscreenOpenGL() (*glfw.Window, DeviceLimits, func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, DeviceLimits{}, nil, err
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	win, err := glfw.CreateWindow(64, 64, "cookiecut", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, DeviceLimits{}, nil, err
	}
	win.MakeContextCurrent()

	glx.Init()

	version := gl.GoStr(gl.GetString(gl.VERSION))
	LogGlInfo(fmt.Sprintf("OpenGL version %s", version))

	limits := QueryDeviceLimits()

	return win, limits, func() {
		glfw.Terminate()
	}, nil
}
