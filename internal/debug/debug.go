package debug

import (
	"fmt"
	"log/slog"
	"time"
)

// Header logs a debug section header if debugging is enabled
func Header(logger *slog.Logger, enabled bool, section string) {
	if enabled {
		logger.Debug("=== DEBUG START ===", "section", section)
	}
}

// Footer logs a debug section footer if debugging is enabled
func Footer(logger *slog.Logger, enabled bool, section string) {
	if enabled {
		logger.Debug("=== DEBUG END ===", "section", section)
	}
}

// Output logs a formatted debug message if debugging is enabled
func Output(logger *slog.Logger, enabled bool, format string, args ...interface{}) {
	if enabled {
		logger.Debug(fmt.Sprintf(format, args...))
	}
}

// Timing measures an operation and logs its duration at info level.
// Call the returned function when the operation completes.
func Timing(logger *slog.Logger, enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	logger.Debug("starting", "operation", operation)

	return func() {
		logger.Info("completed", "operation", operation, "duration_ms", time.Since(start).Milliseconds())
	}
}
