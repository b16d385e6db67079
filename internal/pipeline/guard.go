package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRunInProgress is returned when a run is already active for the same
// pipeline or, through the lock file, for the same scratch directory.
var ErrRunInProgress = errors.New("a transcription run is already in progress")

// lockPath sits beside the scratch directory so cleanup never removes it.
func lockPath(dataDir string) string {
	return filepath.Clean(dataDir) + ".lock"
}

// acquireRun claims the in-process flag and the scratch directory lock. The
// returned release undoes both.
func (p *Pipeline) acquireRun() (func(), error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}

	path := lockPath(p.dataDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		p.running.Store(false)
		return nil, fmt.Errorf("ensure lock dir: %w", err)
	}
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		p.running.Store(false)
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		p.running.Store(false)
		return nil, fmt.Errorf("%w (lock held on %s)", ErrRunInProgress, path)
	}

	return func() {
		_ = lock.Unlock()
		p.running.Store(false)
	}, nil
}
