package store

import (
	"time"

	"github.com/aurelabs/aura/internal/model/contract"
)

// --- Session Turns (sessions/<call_id>.json) ---

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is one entry in a call's ordered message log. Content may be empty
// on assistant turns that only carry tool invocations; ToolCallID links a
// tool turn back to the invocation it answers.
type Turn struct {
	ID         string               `json:"id"` // ULID
	Role       Role                 `json:"role"`
	Content    string               `json:"content"`
	ToolCalls  []*contract.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string               `json:"tool_call_id,omitempty"`
	Timestamp  time.Time            `json:"ts"`
}

func (t Turn) ToMessage() contract.Message {
	return contract.Message{
		Role:       string(t.Role),
		Content:    t.Content,
		ToolCalls:  t.ToolCalls,
		ToolCallID: t.ToolCallID,
	}
}

// --- Mood Log (moods/<call_id>_moods.json) ---

// MoodObservation is one timestamped inference about user affect. The log
// is append-only; entries are never mutated or deleted.
type MoodObservation struct {
	Mood      string    `json:"mood"`
	Reasoning string    `json:"reasoning,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
