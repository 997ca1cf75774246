// Command rosterctl edits a team sheet stored in a local SQLite file.
package main

import (
	"os"

	"github.com/riskibarqy/team-sheet/internal/platform/logging"
)

func main() {
	logger := logging.New(logging.Options{
		Level:  logging.LevelWarn,
		Format: logging.FormatConsole,
		Output: os.Stderr,
	})
	defer func() { _ = logger.Sync() }()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("rosterctl failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}
