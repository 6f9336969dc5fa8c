// internal/hal/region.go
package hal

import (
	"errors"
	"os"
	"path/filepath"
)

// FileRegion retains a small byte region in a file. Backed by tmpfs it
// survives a process or watchdog restart but not a power cycle, which is
// exactly the retention the event log wants.
type FileRegion struct {
	path string
}

func NewFileRegion(path string) (*FileRegion, error) {
	if path == "" {
		return nil, errors.New("hal: region path required")
	}
	return &FileRegion{path: path}, nil
}

// Load returns the retained bytes, or nil if the region has never been
// written (a cold boot).
func (r *FileRegion) Load() ([]byte, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// Store replaces the retained bytes.
func (r *FileRegion) Store(b []byte) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o644)
}
