package util

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// CheckForGLError drains the pending GL error, logging it tagged with the
// call site. It reports whether an error was pending so tests can assert a
// clean pipeline run.
func CheckForGLError(where string) bool {
	errorCodeOfGL := gl.GetError()

	if errorCodeOfGL != gl.NO_ERROR {
		LogGlError(fmt.Sprintf("GL error at %s: 0x%x", where, errorCodeOfGL))
		return true
	}
	return false
}
