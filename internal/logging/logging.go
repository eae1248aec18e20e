// Package logging holds the process-wide structured logger.
//
// The logger starts as a no-op so library code can log unconditionally;
// the CLI calls Initialize once flags and config are known.
package logging

import (
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured log entries.
const (
	FieldAxis      = "axis"
	FieldContainer = "container"
	FieldIndex     = "index"
	FieldStage     = "stage"
	FieldResult    = "result"
	FieldMapping   = "mapping"
	FieldSource    = "source"
	FieldFile      = "file"
	FieldCount     = "count"
	FieldPackage   = "package"
)

// Options configures Initialize.
type Options struct {
	// JSON selects production JSON output instead of the console encoder.
	JSON bool
	// Level is a zap level name ("debug", "info", "warn", "error").
	// Empty means "warn".
	Level string
}

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// L returns the current logger. It never returns nil.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()

	return logger
}

// Set replaces the process-wide logger; nil restores the no-op logger.
// Tests use it with zaptest loggers.
func Set(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}

	mu.Lock()
	logger = l
	mu.Unlock()
}

// Initialize builds a logger from opts and installs it.
func Initialize(opts Options) error {
	level := zapcore.WarnLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return errors.Wrapf(err, "log level %q", opts.Level)
		}
	}

	var (
		zl  *zap.Logger
		err error
	)

	if opts.JSON {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.OutputPaths = []string{"stderr"}
		zl, err = cfg.Build()
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = ""
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zl = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	if err != nil {
		return errors.Wrap(err, "build logger")
	}

	Set(zl.Sugar())

	return nil
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}
