package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	auraErrors "github.com/aurelabs/aura/internal/errors"

	"github.com/natefinch/atomic"
)

// trendWindow bounds how many recent observations the trend inspects.
const trendWindow = 5

// MoodStore keeps an append-only mood log per call id. Observations are
// never mutated or deleted; the trend is a deterministic inspection of the
// last few entries, with no smoothing or scoring.
type MoodStore struct {
	dir string
}

// TrendReport summarizes recent affect for prompt assembly.
type TrendReport struct {
	Description string
	History     []MoodObservation
}

func NewMoodStore(dataDir string) (*MoodStore, error) {
	dir := MoodsDir(dataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create moods dir: %w", err)
	}
	return &MoodStore{dir: dir}, nil
}

// Append adds one observation to the call's log. A corrupt existing log is
// logged and replaced rather than blocking new observations. A zero
// timestamp is stamped with the current time.
func (m *MoodStore) Append(callID string, obs MoodObservation) error {
	if !ValidCallID(callID) {
		return fmt.Errorf("%w: call id %q", auraErrors.ErrInvalidInput, callID)
	}
	if strings.TrimSpace(obs.Mood) == "" {
		return fmt.Errorf("%w: mood label is empty", auraErrors.ErrInvalidInput)
	}

	moods := m.load(callID)

	if obs.Timestamp.IsZero() {
		obs.Timestamp = time.Now()
	}
	moods = append(moods, obs)

	data, err := json.MarshalIndent(moods, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal moods %s: %w", callID, err)
	}
	if err := atomic.WriteFile(m.Path(callID), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write moods %s: %w", callID, err)
	}
	return nil
}

// Trend describes how the perceived mood has been moving across the last
// few observations, walking the window newest-first to find shifts.
func (m *MoodStore) Trend(callID string) TrendReport {
	moods := m.load(callID)
	if len(moods) == 0 {
		return TrendReport{Description: "No mood history recorded for this session."}
	}

	recent := moods
	if len(recent) > trendWindow {
		recent = recent[len(recent)-trendWindow:]
	}
	current := recent[len(recent)-1].Mood

	if len(recent) == 1 {
		return TrendReport{
			Description: fmt.Sprintf("Current perceived mood is %s.", current),
			History:     recent,
		}
	}

	if allSameMood(recent) {
		return TrendReport{
			Description: fmt.Sprintf("Mood has been consistently perceived as %s.", current),
			History:     recent,
		}
	}

	previous := recent[len(recent)-2].Mood
	if previous != current {
		return TrendReport{
			Description: fmt.Sprintf("Mood seems to have shifted from %s to %s.", previous, current),
			History:     recent,
		}
	}

	// The last two agree but the window is mixed: find the nearest
	// earlier observation that differs.
	for i := len(recent) - 2; i >= 0; i-- {
		if recent[i].Mood != current {
			return TrendReport{
				Description: fmt.Sprintf("Recently, mood shifted from %s and is now %s.", recent[i].Mood, current),
				History:     recent,
			}
		}
	}

	labels := make([]string, 0, len(recent))
	for _, o := range recent {
		labels = append(labels, o.Mood)
	}
	return TrendReport{
		Description: fmt.Sprintf("Perceived mood is %s. Recent history includes: %s.", current, strings.Join(labels, ", ")),
		History:     recent,
	}
}

func (m *MoodStore) Path(callID string) string {
	return filepath.Join(m.dir, callID+"_moods.json")
}

func (m *MoodStore) load(callID string) []MoodObservation {
	if !ValidCallID(callID) {
		return nil
	}

	data, err := os.ReadFile(m.Path(callID))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("Failed to read mood file", "call_id", callID, "error", err)
		}
		return nil
	}

	var moods []MoodObservation
	if err := json.Unmarshal(data, &moods); err != nil {
		slog.Error("Failed to parse mood file, treating as empty", "call_id", callID, "error", err)
		return nil
	}
	return moods
}

func allSameMood(obs []MoodObservation) bool {
	for i := 1; i < len(obs); i++ {
		if obs[i].Mood != obs[0].Mood {
			return false
		}
	}
	return true
}
