package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const allocateLockName = ".allocate.lock"

// allocateOutput reserves the next free output/<serial>/<n>.<ext> name.
// A flock at the output root serializes allocation across processes
// sharing the tree; O_EXCL creation makes the reservation itself atomic,
// so a name is never handed out twice.
func (r *Runner) allocateOutput(serial string) (string, error) {
	lock := flock.New(filepath.Join(r.cfg.Paths.OutputDir, allocateLockName))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock output allocation: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	dir := filepath.Join(r.cfg.Paths.OutputDir, serial)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create serial directory: %w", err)
	}

	for n := 1; ; n++ {
		path := filepath.Join(dir, fmt.Sprintf("%d.%s", n, r.codec.Ext()))
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reserve output name: %w", err)
		}
		if err := file.Close(); err != nil {
			return "", err
		}
		return path, nil
	}
}
