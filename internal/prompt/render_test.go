package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFillsPlaceholders(t *testing.T) {
	out, err := Render("Hello {name}, it is {time_of_day}.", map[string]string{
		"name":        "Aura",
		"time_of_day": "morning",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Aura, it is morning.", out)
}

func TestRenderFailsOnUnresolvedPlaceholder(t *testing.T) {
	_, err := Render("Hello {name}, mood: {mood_trend}.", map[string]string{"name": "Aura"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{mood_trend}")
}

func TestRenderLeavesLiteralBracesAlone(t *testing.T) {
	out, err := Render(`Reply with JSON like {"success": true}. User: {user_message}`, map[string]string{
		"user_message": "hi",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `{"success": true}`)
}
