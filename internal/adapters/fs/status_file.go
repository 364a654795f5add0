package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bft-labs/lifebind/internal/domain"
)

// StatusFileRepository implements ports.StatusRepository using a JSON file.
type StatusFileRepository struct {
	path string
}

// NewStatusFileRepository creates a repository writing to path.
func NewStatusFileRepository(path string) *StatusFileRepository {
	return &StatusFileRepository{path: path}
}

// Load retrieves the last saved status from disk.
// Returns an empty status and nil error if no status file exists.
func (r *StatusFileRepository) Load(ctx context.Context) (domain.Status, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Status{}, nil
		}
		return domain.Status{}, err
	}

	var status domain.Status
	if err := json.Unmarshal(data, &status); err != nil {
		return domain.Status{}, err
	}
	return status, nil
}

// Save persists status atomically by writing a temp file and renaming it.
func (r *StatusFileRepository) Save(ctx context.Context, status domain.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

// Path returns the full path to the status file.
func (r *StatusFileRepository) Path() string {
	return r.path
}
