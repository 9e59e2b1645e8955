package models

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerName prefixes every diagnostic the loader emits.
const LoggerName = "WavefrontLoader"

// NewDiagnosticLogger returns a console logger writing to w at level and
// above. A nil w selects os.Stderr.
func NewDiagnosticLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}
	encCfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

var defaultLogger = NewDiagnosticLogger(os.Stderr, zapcore.WarnLevel)
