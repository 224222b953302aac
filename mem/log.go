package mem

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package's logger instance. It defaults to a no-op
// logger; call SetLogger before constructing a Mem to observe GC cycle
// boundaries.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs l as the package logger. Logging is strictly
// observational: nothing in this package's control flow depends on
// whether a logger has been configured.
func SetLogger(l *zap.Logger) {
	logger = l
}
