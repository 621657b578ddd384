// Package logging builds the process logger. Logs go to standard error so
// that standard output only ever carries the generated document.
package logging

import (
	"io"
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLogLevel raises the verbosity when -v is not given.
const EnvLogLevel = "CLUSTERFORM_LOG_LEVEL"

// Options configures New.
type Options struct {
	// Verbosity enables logr V-levels up to and including this value.
	Verbosity int
	// JSON switches from the console encoder to JSON lines.
	JSON bool
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// New creates a zap-backed logr.Logger.
func New(opts Options) logr.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	level := zap.NewAtomicLevelAt(zapcore.Level(-opts.Verbosity))
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zapr.NewLogger(zap.New(core))
}

// Verbosity returns flag when it is set, otherwise the value of
// CLUSTERFORM_LOG_LEVEL. Invalid or negative values count as zero.
func Verbosity(flag int) int {
	if flag > 0 {
		return flag
	}
	v, err := strconv.Atoi(os.Getenv(EnvLogLevel))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// WithRun tags every entry with the stack and a fresh run id, and returns
// the id.
func WithRun(log logr.Logger, stack string) (logr.Logger, string) {
	runID := uuid.NewString()
	return log.WithValues("stack", stack, "run", runID), runID
}
