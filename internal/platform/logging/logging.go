package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level, encoding and destination of the process logger.
// An empty Path writes to stderr.
type Options struct {
	Level  string
	Format string
	Path   string
}

// New builds a zap logger. The returned closer releases the log file.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	dest := "stderr"
	if opts.Path != "" {
		dest = opts.Path
	}
	sink, closeSink, err := zap.Open(dest)
	if err != nil {
		return nil, nil, fmt.Errorf("open log sink: %w", err)
	}

	core := zapcore.NewCore(newEncoder(opts.Format), sink, level)
	logger := zap.New(core, zap.AddCaller())
	cleanup := func() {
		_ = logger.Sync()
		closeSink()
	}
	return logger, cleanup, nil
}

// Nop discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}
