package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	auraErrors "github.com/aurelabs/aura/internal/errors"

	"github.com/natefinch/atomic"
)

// SessionStore persists one ordered turn log per call id as a JSON file.
// There is no in-memory cache: every webhook event reads the file back, so
// state survives process restarts. Loads fail soft; saves replace the whole
// file atomically so a crashed write never leaves a partial turn behind.
type SessionStore struct {
	dir string
}

func NewSessionStore(dataDir string) (*SessionStore, error) {
	dir := SessionsDir(dataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &SessionStore{dir: dir}, nil
}

// Load returns the stored turns for a call. A missing file is a new
// session; a corrupt file is logged and treated as empty. Load never
// fails: callers always get a usable (possibly empty) turn list.
func (s *SessionStore) Load(callID string) []Turn {
	if !ValidCallID(callID) {
		slog.Warn("Session load rejected invalid call id", "call_id", callID)
		return []Turn{}
	}

	data, err := os.ReadFile(s.Path(callID))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("Failed to read session file", "call_id", callID, "error", err)
		}
		return []Turn{}
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		slog.Error("Failed to parse session file, starting fresh", "call_id", callID, "error", err)
		return []Turn{}
	}
	return turns
}

// Save replaces the stored turn log for a call. The write is atomic: the
// next Load observes either the prior state or the full new list.
func (s *SessionStore) Save(callID string, turns []Turn) error {
	if !ValidCallID(callID) {
		return fmt.Errorf("%w: call id %q", auraErrors.ErrInvalidInput, callID)
	}
	if turns == nil {
		turns = []Turn{}
	}

	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", callID, err)
	}

	if err := atomic.WriteFile(s.Path(callID), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write session %s: %w", callID, err)
	}
	return nil
}

// LastModified reports when the session file was last written. ok is false
// when no prior session exists, which renders as "First conversation".
func (s *SessionStore) LastModified(callID string) (time.Time, bool) {
	if !ValidCallID(callID) {
		return time.Time{}, false
	}
	info, err := os.Stat(s.Path(callID))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func (s *SessionStore) Path(callID string) string {
	return filepath.Join(s.dir, callID+".json")
}
