package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds the process logger for the given backend ("slog" or "zap") and level.
// The slog backend writes JSON to w; zap uses its production JSON encoder on stdout.
func New(backend, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = slog.LevelInfo
		}
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		return NewSlogLogger(slog.New(h)), nil

	case BackendZap:
		cfg := zap.NewProductionConfig()
		zl := new(zapcore.Level)
		if err := zl.Set(level); err != nil {
			*zl = zapcore.InfoLevel
		}
		cfg.Level = zap.NewAtomicLevelAt(*zl)
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err := cfg.Build(zap.Fields(zap.String("service", "gophauth")))
		if err != nil {
			return nil, fmt.Errorf("zap logger: %w", err)
		}
		return NewZapLogger(l), nil

	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Nop returns a logger that discards everything; handy in tests.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
