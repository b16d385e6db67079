package output

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"transcriber/internal/logging"
)

// CleanScratch deletes every file directly inside dir. Subdirectories are
// left alone. It is best effort and only reports through the logger.
func CleanScratch(dir string, logger *slog.Logger) {
	logger = logging.NewComponentLogger(logger, "output")
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Info("Cleanup skipped: " + err.Error())
		return
	}

	var firstErr error
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := os.Remove(path); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		logger.Info("Cleanup skipped: " + firstErr.Error())
		return
	}
	logger.Info("Cleaned temporary data directory.")
}
