package store

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendMoods(t *testing.T, m *MoodStore, callID string, moods ...string) {
	t.Helper()
	base := time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)
	for i, mood := range moods {
		require.NoError(t, m.Append(callID, MoodObservation{
			Mood:      mood,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestTrendNoHistory(t *testing.T) {
	m, err := NewMoodStore(t.TempDir())
	require.NoError(t, err)

	report := m.Trend("fresh-call")
	assert.Equal(t, "No mood history recorded for this session.", report.Description)
	assert.Empty(t, report.History)
}

func TestTrendSingleEntry(t *testing.T) {
	m, err := NewMoodStore(t.TempDir())
	require.NoError(t, err)

	appendMoods(t, m, "c1", "Happy")
	report := m.Trend("c1")
	assert.Equal(t, "Current perceived mood is Happy.", report.Description)
	assert.Len(t, report.History, 1)
}

func TestTrendConsistent(t *testing.T) {
	m, err := NewMoodStore(t.TempDir())
	require.NoError(t, err)

	appendMoods(t, m, "c2", "Content", "Content", "Content")
	report := m.Trend("c2")
	assert.Equal(t, "Mood has been consistently perceived as Content.", report.Description)
	assert.Len(t, report.History, 3)
}

func TestTrendShift(t *testing.T) {
	m, err := NewMoodStore(t.TempDir())
	require.NoError(t, err)

	appendMoods(t, m, "c3", "Anxious", "Anxious", "Happy")
	report := m.Trend("c3")
	assert.Equal(t, "Mood seems to have shifted from Anxious to Happy.", report.Description)
}

func TestTrendSettledAfterShift(t *testing.T) {
	m, err := NewMoodStore(t.TempDir())
	require.NoError(t, err)

	appendMoods(t, m, "c4", "Stressed", "Happy", "Happy")
	report := m.Trend("c4")
	assert.Equal(t, "Recently, mood shifted from Stressed and is now Happy.", report.Description)
}

func TestTrendWindowLimit(t *testing.T) {
	m, err := NewMoodStore(t.TempDir())
	require.NoError(t, err)

	// Older entries fall outside the 5-wide window; only the last 5 count.
	appendMoods(t, m, "c5", "Sad", "Neutral", "Neutral", "Neutral", "Neutral", "Neutral")
	report := m.Trend("c5")
	assert.Equal(t, "Mood has been consistently perceived as Neutral.", report.Description)
	assert.Len(t, report.History, 5)
}

func TestAppendValidation(t *testing.T) {
	m, err := NewMoodStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, m.Append("", MoodObservation{Mood: "Happy"}))
	assert.Error(t, m.Append("c6", MoodObservation{Mood: "  "}))
}

func TestAppendStampsTimestamp(t *testing.T) {
	m, err := NewMoodStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, m.Append("c7", MoodObservation{Mood: "Excited"}))
	report := m.Trend("c7")
	require.Len(t, report.History, 1)
	assert.WithinDuration(t, time.Now(), report.History[0].Timestamp, time.Minute)
}

func TestAppendRecoversFromCorruptFile(t *testing.T) {
	m, err := NewMoodStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(m.Path("c8"), []byte("not json"), 0644))
	require.NoError(t, m.Append("c8", MoodObservation{Mood: "Neutral"}))

	report := m.Trend("c8")
	assert.Len(t, report.History, 1)
}
