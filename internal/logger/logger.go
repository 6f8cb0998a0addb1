// Package logger builds the zap loggers used by every command. Logs go to
// stderr, command output stays on stdout.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const stderr = "stderr"

type Options struct {
	JSON  bool
	Debug bool
	// Output is a file path or "stderr". The terminal ui points it at a file
	// since anything written to the terminal breaks its screen.
	Output string
}

// New returns a console or json logger on stderr at info level, or debug level when debug is set.
func New(json bool, debug bool) (*zap.Logger, error) {
	return NewWithOptions(Options{JSON: json, Debug: debug})
}

func NewWithOptions(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"
	output := opts.Output

	if opts.JSON {
		encoding = "json"
	}

	if opts.Debug {
		level = zapcore.DebugLevel
	}

	if output == "" {
		output = stderr
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{output},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	return logger, nil
}
