package cleanup

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"soundrip/internal/logging"
	"soundrip/internal/resolve"
)

// Manager deletes transient conversion artifacts under a policy. Every
// operation is best-effort: failures and refusals are logged, never returned,
// so cleanup can never mask the primary pipeline outcome.
type Manager struct {
	cacheRoot   string
	ownedPrefix string
	output      bool
	localSource bool
	logger      *slog.Logger
}

// NewManager builds a cleanup manager. The token scopes source deletion to
// this deployment's subdirectory of the shared cache root, so one bot cannot
// delete another bot's cached files.
func NewManager(cacheRoot, token string, removeOutput, removeLocalSource bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	ownedPrefix := ""
	if cacheRoot != "" && token != "" {
		ownedPrefix = filepath.Join(cacheRoot, token) + string(filepath.Separator)
	}
	return &Manager{
		cacheRoot:   cacheRoot,
		ownedPrefix: ownedPrefix,
		output:      removeOutput,
		localSource: removeLocalSource,
		logger:      logging.NewComponentLogger(logger, "cleanup"),
	}
}

// OutputEnabled reports whether produced audio files should be deleted after
// sending.
func (m *Manager) OutputEnabled() bool { return m.output }

// RemoveOutput deletes the produced audio file when the output policy is
// enabled. Missing files are a no-op.
func (m *Manager) RemoveOutput(path string) {
	if !m.output || path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := os.Remove(path); err != nil {
		m.logger.Warn("failed to delete output file", logging.String("path", path), logging.Error(err))
		return
	}
	m.logger.Info("deleted output file", logging.String("path", path))
}

// RemoveSource deletes the cached source video when the local-source policy
// is enabled and the resolved source was local. Two safety invariants must
// both hold or the call is a logged no-op: the path lies under the cache
// root, and under this deployment's token subdirectory. Only regular files
// are removed, never directories.
func (m *Manager) RemoveSource(src resolve.Source) {
	if !m.localSource || src.Kind != resolve.KindLocal || src.Path == "" {
		return
	}

	if m.cacheRoot == "" || !strings.HasPrefix(src.Path, m.cacheRoot) {
		m.logger.Warn("skip deleting source outside cache root", logging.String("path", src.Path))
		return
	}
	if m.ownedPrefix == "" || !strings.HasPrefix(src.Path, m.ownedPrefix) {
		m.logger.Warn("skip deleting source not under this bot's cache dir", logging.String("path", src.Path))
		return
	}

	info, err := os.Lstat(src.Path)
	if err != nil {
		return
	}
	if !info.Mode().IsRegular() {
		m.logger.Warn("skip deleting non-regular source", logging.String("path", src.Path))
		return
	}

	if err := os.Remove(src.Path); err != nil {
		m.logger.Warn("failed to delete source video", logging.String("path", src.Path), logging.Error(err))
		return
	}
	m.logger.Info("deleted cached source video", logging.String("path", src.Path))
}
