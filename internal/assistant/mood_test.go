package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMood(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
		ok    bool
	}{
		{"labelled", "Perceived Mood: Happy", "Happy", true},
		{"labelled lowercase", "perceived mood: stressed", "Stressed", true},
		{"labelled with prose", "The user seems upbeat.\nPerceived Mood: Excited", "Excited", true},
		{"bare word on last line", "Thinking about it...\nFrustrated", "Frustrated", true},
		{"bare word only", "Content", "Content", true},
		{"off vocabulary label kept", "Perceived Mood: Melancholic", "Melancholic", true},
		{"unparseable", "The user might be feeling a lot of things.", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mood, ok := ParseMood(tt.reply)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, mood)
		})
	}
}

func TestAnalyzeEmptyMessage(t *testing.T) {
	router := &fakeRouter{}
	a := NewMoodAnalyzer(router, "test-chat", 0.5, 50)

	obs := a.Analyze(context.Background(), "   ")
	assert.Equal(t, MoodUncertain, obs.Mood)
	assert.Empty(t, router.requests)
	assert.False(t, obs.Timestamp.IsZero())
}

func TestAnalyzeModelFailure(t *testing.T) {
	router := &fakeRouter{err: errors.New("model offline")}
	a := NewMoodAnalyzer(router, "test-chat", 0.5, 50)

	obs := a.Analyze(context.Background(), "I'm fine")
	assert.Equal(t, MoodUncertain, obs.Mood)
	assert.Contains(t, obs.Reasoning, "Error during analysis")
}

func TestAnalyzeParsesReply(t *testing.T) {
	router := &fakeRouter{responses: []string{"Perceived Mood: Anxious"}}
	a := NewMoodAnalyzer(router, "test-chat", 0.5, 50)

	obs := a.Analyze(context.Background(), "I'm worried about tomorrow")
	assert.Equal(t, "Anxious", obs.Mood)
	assert.Equal(t, "AI perceived mood as Anxious.", obs.Reasoning)
}
