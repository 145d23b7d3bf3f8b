// Package logging builds the process logger.
//
// Logs are JSON lines written to a rotating file under the nudge base
// directory and, optionally, to stderr. Stdout is never used: it carries CLI
// output and the MCP stdio transport.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much the logger writes.
type Options struct {
	// Dir is the directory for nudge.log. Empty disables file logging.
	Dir string

	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// Stderr mirrors log lines to stderr.
	Stderr bool
}

// New builds a zap logger from opts. With neither a directory nor stderr it
// returns a no-op logger.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	var cores []zapcore.Core

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "nudge.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), level))
	}

	if opts.Stderr {
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.Lock(os.Stderr), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
