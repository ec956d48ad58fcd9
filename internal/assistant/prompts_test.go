package assistant

import (
	"testing"

	"github.com/aurelabs/aura/internal/prompt"

	"github.com/stretchr/testify/assert"
)

func TestPromptTemplatesRenderCompletely(t *testing.T) {
	_, err := prompt.Render(systemPromptTemplate, map[string]string{
		"current_time":      "Monday, March 04, 2024 10:30 (morning)",
		"last_interaction":  "Yesterday",
		"mood_trend":        "No mood history recorded for this session.",
		"relevant_memories": noMemoriesForContext,
	})
	assert.NoError(t, err)

	_, err = prompt.Render(starterPromptTemplate, map[string]string{
		"current_time": "Monday, March 04, 2024 10:30",
		"time_of_day":  "morning",
		"mood_trend":   "Current perceived mood is Happy.",
		"key_memories": noMemoriesForStarter,
	})
	assert.NoError(t, err)

	_, err = prompt.Render(moodPromptTemplate, map[string]string{"user_message": "I'm doing great"})
	assert.NoError(t, err)
}
