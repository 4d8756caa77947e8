// Package logging builds the zap logger and the wrappers every shell command
// runs through.
package logging

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrPanic is returned by Recover when the wrapped handler panicked.
var ErrPanic = errors.New("internal error")

// New returns a production JSON logger, or a development console logger when
// dev is set. Output goes to stderr.
func New(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Handler is a unit of command work.
type Handler func(ctx context.Context) error

// Command logs the command name, duration and outcome of next.
func Command(log *zap.Logger, name string, next Handler) Handler {
	return func(ctx context.Context) error {
		start := time.Now()
		err := next(ctx)
		fields := []zap.Field{
			zap.String("command", name),
			zap.Duration("dur", time.Since(start)),
		}
		if err != nil {
			log.Warn("command failed", append(fields, zap.Error(err))...)
			return err
		}
		log.Info("command", fields...)
		return nil
	}
}

// Recover turns a panic in next into ErrPanic and logs it with a stack.
func Recover(log *zap.Logger, name string, next Handler) Handler {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("command", name),
				)
				err = ErrPanic
			}
		}()
		return next(ctx)
	}
}

// Wrap applies Recover inside Command.
func Wrap(log *zap.Logger, name string, next Handler) Handler {
	return Command(log, name, Recover(log, name, next))
}
