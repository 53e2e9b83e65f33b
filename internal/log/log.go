// Package log holds the process-wide zap logger.
package log

import "go.uber.org/zap"

var logger *zap.Logger

// Init builds the logger once. Production mode logs JSON at info level;
// development mode logs human-readable lines at debug level.
func Init(prod bool) error {
	if logger != nil {
		return nil
	}
	var err error
	if prod {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	return err
}

// L returns the logger, or a no-op logger if Init was never called.
func L() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Sync flushes buffered entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
