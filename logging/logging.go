// Package logging holds the process-wide zap logger the library emits
// lifecycle events through. The default is a no-op logger; applications that
// want engine diagnostics install their own with Use.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// Use installs l as the library-wide logger. A nil l restores the no-op
// logger.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// L returns the currently installed logger.
func L() *zap.Logger {
	return current.Load()
}
