package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aurelabs/aura/internal/model"
	"github.com/aurelabs/aura/internal/model/contract"
	"github.com/aurelabs/aura/internal/prompt"
	"github.com/aurelabs/aura/internal/store"
)

// MoodUncertain is recorded when no mood can be inferred, whether because
// the message was empty, the model failed, or its reply was unparseable.
const MoodUncertain = "Uncertain"

var moodVocabulary = []string{
	"Neutral", "Happy", "Sad", "Anxious", "Excited",
	"Stressed", "Content", "Confused", "Frustrated", "Other",
}

var perceivedMoodPattern = regexp.MustCompile(`(?i)Perceived Mood:\s*(\w+)`)

// MoodAnalyzer infers the user's affect from one utterance via a model
// call. It is fail-soft: every path yields an observation, defaulting to
// Uncertain rather than propagating an error into the turn.
type MoodAnalyzer struct {
	router      model.Router
	model       string
	temperature float32
	maxTokens   int
}

func NewMoodAnalyzer(router model.Router, chatModel string, temperature float32, maxTokens int) *MoodAnalyzer {
	return &MoodAnalyzer{
		router:      router,
		model:       chatModel,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (a *MoodAnalyzer) Analyze(ctx context.Context, userMessage string) store.MoodObservation {
	now := time.Now()
	if strings.TrimSpace(userMessage) == "" {
		return store.MoodObservation{Mood: MoodUncertain, Reasoning: "No message to analyze.", Timestamp: now}
	}

	rendered, err := prompt.Render(moodPromptTemplate, map[string]string{"user_message": userMessage})
	if err != nil {
		slog.Error("Mood prompt render failed", "error", err)
		return store.MoodObservation{Mood: MoodUncertain, Reasoning: "Prompt rendering failed.", Timestamp: now}
	}

	resp, err := a.router.Route(ctx, a.model, contract.CompletionRequest{
		Messages:    []contract.Message{{Role: "system", Content: rendered}},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		slog.Warn("Mood analysis model call failed", "error", err)
		return store.MoodObservation{
			Mood:      MoodUncertain,
			Reasoning: fmt.Sprintf("Error during analysis: %v", err),
			Timestamp: now,
		}
	}

	mood, ok := ParseMood(resp.Content)
	if !ok {
		slog.Warn("Could not parse mood from model reply", "reply", resp.Content)
		return store.MoodObservation{Mood: MoodUncertain, Reasoning: "Could not determine mood from AI response.", Timestamp: now}
	}

	return store.MoodObservation{
		Mood:      mood,
		Reasoning: fmt.Sprintf("AI perceived mood as %s.", mood),
		Timestamp: now,
	}
}

// ParseMood extracts a mood label from free-text model output. It first
// looks for a "Perceived Mood: X" line, then falls back to checking
// whether the last line is a bare vocabulary word. The model's format is
// untrusted text; callers must treat !ok as Uncertain.
func ParseMood(reply string) (string, bool) {
	if match := perceivedMoodPattern.FindStringSubmatch(reply); match != nil {
		return normalizeMood(match[1])
	}

	lines := strings.Split(strings.TrimSpace(reply), "\n")
	lastLine := strings.TrimSpace(lines[len(lines)-1])
	for _, mood := range moodVocabulary {
		if lastLine == mood {
			return mood, true
		}
	}
	return "", false
}

func normalizeMood(word string) (string, bool) {
	for _, mood := range moodVocabulary {
		if strings.EqualFold(word, mood) {
			return mood, true
		}
	}
	// The pattern matched but the word is off-vocabulary; keep it rather
	// than discard what the model asserted.
	return word, true
}
