package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/aurelabs/aura/internal/model"
	"github.com/aurelabs/aura/internal/model/contract"
	"github.com/aurelabs/aura/internal/prompt"
	"github.com/aurelabs/aura/internal/store"
	"github.com/aurelabs/aura/internal/timectx"

	"github.com/oklog/ulid/v2"
)

const (
	greetingMemoryQuery = "important personal information about the user"
	contextMemoryQuery  = "Overall user profile, preferences, and long-term discussion topics"
)

// Retriever is the slice of the memory layer the assembler reads from.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) []string
}

// LastModifiedReporter reports when a session was last written, for the
// recency phrase in the system prompt.
type LastModifiedReporter interface {
	LastModified(callID string) (time.Time, bool)
}

// Trender reports the recent mood trend for a session.
type Trender interface {
	Trend(callID string) store.TrendReport
}

// AssemblerConfig carries the model tuning for greeting generation.
type AssemblerConfig struct {
	ChatModel           string
	GreetingTemperature float32
	GreetingMaxTokens   int
	ContextMemories     int
}

// Assembler builds the per-call prompt context: the system turn, the
// opening greeting, and per-turn memory augmentation. It holds no mutable
// state of its own; concurrent webhook events may share one instance.
type Assembler struct {
	router   model.Router
	memories Retriever
	sessions LastModifiedReporter
	moods    Trender
	cfg      AssemblerConfig
	loc      *time.Location
}

func NewAssembler(router model.Router, memories Retriever, sessions LastModifiedReporter, moods Trender, cfg AssemblerConfig, loc *time.Location) *Assembler {
	return &Assembler{
		router:   router,
		memories: memories,
		sessions: sessions,
		moods:    moods,
		cfg:      cfg,
		loc:      loc,
	}
}

// BuildGreeting produces the proactive opener for a freshly connected
// call. A dead model capability falls back to a canned time-of-day opener,
// so the call always gets a greeting.
func (a *Assembler) BuildGreeting(ctx context.Context, callID string) string {
	tc := timectx.Now(a.loc)

	greeting, err := a.generateGreeting(ctx, callID, tc)
	if err != nil {
		slog.Warn("Greeting generation failed, using canned opener", "call_id", callID, "error", err)
		return a.cannedGreeting(tc.TimeOfDay)
	}
	return greeting
}

func (a *Assembler) generateGreeting(ctx context.Context, callID string, tc timectx.Context) (string, error) {
	trend := a.moods.Trend(callID)

	memoryBlock := noMemoriesForStarter
	if memories := a.memories.Retrieve(ctx, greetingMemoryQuery, a.cfg.ContextMemories); len(memories) > 0 {
		memoryBlock = "Key memories that might be relevant:\n" + bulletList(memories)
	}

	rendered, err := prompt.Render(starterPromptTemplate, map[string]string{
		"current_time": tc.CurrentDate + " " + tc.CurrentTime,
		"time_of_day":  tc.TimeOfDay,
		"mood_trend":   trend.Description,
		"key_memories": memoryBlock,
	})
	if err != nil {
		return "", err
	}

	resp, err := a.router.Route(ctx, a.cfg.ChatModel, contract.CompletionRequest{
		Messages: []contract.Message{
			{Role: "system", Content: rendered},
			{Role: "user", Content: "Please generate a conversation starter."},
		},
		Temperature: a.cfg.GreetingTemperature,
		MaxTokens:   a.cfg.GreetingMaxTokens,
	})
	if err != nil {
		return "", err
	}

	greeting := strings.TrimSpace(resp.Content)
	if greeting == "" {
		return "", fmt.Errorf("model returned empty greeting")
	}
	return greeting, nil
}

func (a *Assembler) cannedGreeting(timeOfDay string) string {
	starters, ok := cannedStarters[timeOfDay]
	if !ok {
		starters = cannedStarters["evening"]
	}
	// Package-level rand is safe under concurrent webhook handlers.
	return starters[rand.Intn(len(starters))]
}

// RefreshSystemTurn recomputes the system prompt from current time, mood
// trend, and profile memories, and installs it as the single leading
// system turn. An existing leading system turn is overwritten in place,
// never duplicated.
func (a *Assembler) RefreshSystemTurn(ctx context.Context, callID string, turns []store.Turn) []store.Turn {
	tc := timectx.Now(a.loc)

	lastModified, ok := a.sessions.LastModified(callID)
	var recency string
	if ok {
		recency = timectx.Recency(time.Now(), lastModified)
	} else {
		recency = timectx.Recency(time.Now(), time.Time{})
	}

	trend := a.moods.Trend(callID)

	memoryBlock := noMemoriesForContext
	if memories := a.memories.Retrieve(ctx, contextMemoryQuery, a.cfg.ContextMemories); len(memories) > 0 {
		memoryBlock = bulletList(memories)
	}

	content, err := prompt.Render(systemPromptTemplate, map[string]string{
		"current_time":      fmt.Sprintf("%s %s (%s)", tc.CurrentDate, tc.CurrentTime, tc.TimeOfDay),
		"last_interaction":  recency,
		"mood_trend":        trend.Description,
		"relevant_memories": memoryBlock,
	})
	if err != nil {
		slog.Error("System prompt render failed, keeping previous system turn", "call_id", callID, "error", err)
		return turns
	}

	if len(turns) > 0 && turns[0].Role == store.RoleSystem {
		turns[0].Content = content
		turns[0].Timestamp = time.Now()
		return turns
	}
	return append([]store.Turn{newTurn(store.RoleSystem, content)}, turns...)
}

// AugmentWithMemories appends the user's utterance as a new turn. When
// memories relevant to the utterance exist, one extra system turn carrying
// them is appended first. That extra turn stays in the session log going
// forward; it is per-invocation context, not deduplicated later.
func (a *Assembler) AugmentWithMemories(ctx context.Context, turns []store.Turn, utterance string, k int) []store.Turn {
	if memories := a.memories.Retrieve(ctx, utterance, k); len(memories) > 0 {
		content := "For your information, here's some potentially relevant context from past discussions related to the user's current message:\n" +
			bulletList(memories) +
			"\nBased on this, and our ongoing conversation, please respond to the user's last message."
		turns = append(turns, newTurn(store.RoleSystem, content))
	}
	return append(turns, newTurn(store.RoleUser, utterance))
}

func newTurn(role store.Role, content string) store.Turn {
	return store.Turn{
		ID:        ulid.Make().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}
