package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aurelabs/aura/internal/pathutil"
)

// ResolveDataDir resolves the configured data directory.
// If empty, it falls back to ~/.aura/data.
func ResolveDataDir(dataDir string) (string, error) {
	if trimmed := strings.TrimSpace(dataDir); trimmed != "" {
		return pathutil.Expand(trimmed)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".aura", "data"), nil
}

// SessionsDir returns the directory holding per-call session files.
func SessionsDir(dataDir string) string {
	return filepath.Join(dataDir, "sessions")
}

// MoodsDir returns the directory holding per-call mood logs.
func MoodsDir(dataDir string) string {
	return filepath.Join(dataDir, "moods")
}

// VectorsDir returns the directory backing the persistent vector index.
func VectorsDir(dataDir string) string {
	return filepath.Join(dataDir, "vectors")
}

// LockPath returns the single-instance lock file path.
func LockPath(dataDir string) string {
	return filepath.Join(dataDir, "aura.lock")
}

// ValidCallID reports whether id is usable as a storage key. Call ids
// become file names, so path separators and traversal are rejected.
func ValidCallID(id string) bool {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return false
	}
	if strings.ContainsAny(trimmed, `/\`) || strings.Contains(trimmed, "..") {
		return false
	}
	return true
}
