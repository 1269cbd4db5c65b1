// Package artifact manages the temporary on-disk files produced by clip
// extraction. Every clip request owns exactly one artifact for its lifetime:
// allocate, write (by the transcoder), read back, dispose.
package artifact

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Artifact is a single temporary output file owned by one request.
type Artifact struct {
	ID        string
	Path      string
	CreatedAt time.Time

	disposeOnce sync.Once
}

// Manager allocates unique artifact paths under a scratch directory and
// guarantees idempotent disposal.
type Manager struct {
	dir    string
	logger *slog.Logger
}

// NewManager creates the scratch directory if needed and returns a Manager.
func NewManager(dir string, logger *slog.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create scratch dir: %w", err)
	}
	return &Manager{dir: dir, logger: logger}, nil
}

// Dir returns the scratch directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Allocate reserves a unique path for one request. The file itself is created
// by the transcoder; uniqueness of the id keeps concurrent requests from ever
// contending on the same path.
func (m *Manager) Allocate() *Artifact {
	id := uuid.NewString()
	return &Artifact{
		ID:        id,
		Path:      filepath.Join(m.dir, id+".mp4"),
		CreatedAt: time.Now(),
	}
}

// Finalize reads the finished artifact back into memory.
func (m *Manager) Finalize(a *Artifact) ([]byte, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot read artifact %s: %w", a.ID, err)
	}
	return data, nil
}

// Dispose removes the artifact file. It is idempotent and swallows errors:
// a missing file is the expected state after a failed transcode that never
// wrote output, and deletion failure must not surface to the caller.
func (m *Manager) Dispose(a *Artifact) {
	if a == nil {
		return
	}

	a.disposeOnce.Do(func() {
		err := os.Remove(a.Path)
		if err != nil && !os.IsNotExist(err) {
			if m.logger != nil {
				m.logger.Warn("failed to remove artifact", "artifact_id", a.ID, "error", err)
			}
			return
		}
		if m.logger != nil {
			m.logger.Debug("artifact disposed", "artifact_id", a.ID)
		}
	})
}
