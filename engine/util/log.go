package util

var GLOBAL_LOG_LEVEL = LogLevelWarning
var GLOBAL_LOG_CATEGORIES = LogShaders | LogTextures | LogPipeline | LogGlyphs | LogOpenGL | LogIO

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelDebug
	LogLevelInfo
)

type LogCategory int

const (
	LogShaders LogCategory = 1 << iota
	LogTextures
	LogPipeline
	LogGlyphs
	LogOpenGL
	LogIO
)

func log(cat LogCategory, lvl LogLevel, txt string) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	println(txt)
}

func LogShaderInfo(txt string) {
	log(LogShaders, LogLevelInfo, txt)
}

func LogShaderDebug(txt string) {
	log(LogShaders, LogLevelDebug, txt)
}

func LogShaderWarning(txt string) {
	log(LogShaders, LogLevelWarning, txt)
}

func LogShaderError(txt string) {
	log(LogShaders, LogLevelError, txt)
}

func LogTextureDebug(txt string) {
	log(LogTextures, LogLevelDebug, txt)
}

func LogTextureWarning(txt string) {
	log(LogTextures, LogLevelWarning, txt)
}

func LogPipelineInfo(txt string) {
	log(LogPipeline, LogLevelInfo, txt)
}

func LogPipelineDebug(txt string) {
	log(LogPipeline, LogLevelDebug, txt)
}

func LogPipelineWarning(txt string) {
	log(LogPipeline, LogLevelWarning, txt)
}

func LogGlyphDebug(txt string) {
	log(LogGlyphs, LogLevelDebug, txt)
}

func LogGlInfo(txt string) {
	log(LogOpenGL, LogLevelInfo, txt)
}

func LogGlError(txt string) {
	log(LogOpenGL, LogLevelError, txt)
}

func LogIOError(txt string) {
	log(LogIO, LogLevelError, txt)
}
