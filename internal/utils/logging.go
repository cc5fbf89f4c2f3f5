package utils

import (
	"log"
	"sync/atomic"
)

var debugEnabled atomic.Bool

// SetDebug toggles [DEBUG] log lines (LOG_LEVEL=debug)
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled reports whether debug logging is on
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// Debugf logs with a [DEBUG] prefix when debug logging is enabled
func Debugf(format string, args ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	log.Printf("[DEBUG] "+format, args...)
}
