package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"soundrip/internal/logging"
)

// Workspace is a uniquely-named ephemeral directory owning the downloaded
// input and produced output for one request. It is exclusively owned by the
// orchestrator handling that request and destroyed when the request ends.
type Workspace struct {
	Dir string
}

// New creates a fresh workspace under baseDir.
func New(baseDir string) (*Workspace, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	dir := filepath.Join(baseDir, "job-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

// InputPath is where downloaded video bytes land.
func (w *Workspace) InputPath() string {
	return filepath.Join(w.Dir, "input_video")
}

// OutputPath places the produced audio file inside the workspace.
func (w *Workspace) OutputPath(filename string) string {
	return filepath.Join(w.Dir, filename)
}

// Remove deletes the workspace recursively. Best-effort: failures are logged
// and never returned, so cleanup cannot mask a pipeline outcome.
func (w *Workspace) Remove(logger *slog.Logger) {
	if w == nil || w.Dir == "" {
		return
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		if logger == nil {
			logger = logging.NewNop()
		}
		logger.Warn("failed to remove workspace", logging.String("dir", w.Dir), logging.Error(err))
	}
}
