package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

var globalLogger *Logger

// Logger is a zap.SugaredLogger that also reports errors to the configured tracker
type Logger struct {
	*zap.SugaredLogger
	errorTracker errors.Tracker
}

// Init builds the global logger. Production uses JSON output, every other env
// uses the colored console encoder. An unparseable level falls back to info.
func Init(level string, env string) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.InitialFields = map[string]interface{}{"env": env}

	built, err := cfg.Build(
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return errors.Wrap(err, "build logger")
	}

	var tracker errors.Tracker
	if globalLogger != nil {
		tracker = globalLogger.errorTracker
	}
	globalLogger = &Logger{SugaredLogger: built.Sugar(), errorTracker: tracker}
	return nil
}

// New wraps an existing zap logger. Tests use it with zaptest/observer cores.
func New(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}

// SetErrorTracker routes Errorf and Errorw calls to tracker
func SetErrorTracker(tracker errors.Tracker) {
	Get().errorTracker = tracker
}

// Get returns the global logger, creating a development one on first use
func Get() *Logger {
	if globalLogger == nil {
		dev, _ := zap.NewDevelopment()
		globalLogger = &Logger{SugaredLogger: dev.Sugar()}
	}
	return globalLogger
}

// With returns a child logger carrying extra fields and the same tracker
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(args...),
		errorTracker:  l.errorTracker,
	}
}

// Errorf logs and tracks a formatted error
func (l *Logger) Errorf(template string, args ...interface{}) {
	l.SugaredLogger.Errorf(template, args...)
	l.track(fmt.Errorf(template, args...), map[string]string{"component": "logger"})
}

// Errorw logs a structured message and tracks it. The value under the "error"
// key becomes the tracked error; every other pair becomes a tag.
func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)
	if l.errorTracker == nil {
		return
	}

	cause, tags := splitTrackerFields(keysAndValues)
	if cause == nil {
		l.track(errors.New(msg), tags)
		return
	}
	l.track(errors.Wrap(cause, msg), tags)
}

func (l *Logger) track(err error, tags map[string]string) {
	if l.errorTracker == nil {
		return
	}
	_ = l.errorTracker.CaptureError(context.Background(), err, tags)
}

func splitTrackerFields(keysAndValues []interface{}) (error, map[string]string) {
	var cause error
	tags := map[string]string{"component": "logger"}

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr && key == "error" {
			cause = err
			continue
		}
		tags[key] = fmt.Sprint(keysAndValues[i+1])
	}
	return cause, tags
}

// Sync flushes buffered entries of the global logger
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}
