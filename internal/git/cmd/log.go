package cmd

import (
	"log/slog"
	"sync"
)

// Subprocesses are started from worker goroutines, so the logger is created
// exactly once.
var logger = sync.OnceValue(func() *slog.Logger {
	return slog.Default().With("package", "git.cmd")
})
