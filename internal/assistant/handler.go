package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/aurelabs/aura/internal/model"
	"github.com/aurelabs/aura/internal/model/contract"
	"github.com/aurelabs/aura/internal/store"
)

// Spoken fallbacks. Every handler path returns something sayable; errors
// are logged, never surfaced as silence.
const (
	fallbackStartup    = "I had a little trouble starting up. Could you try again?"
	fallbackRequest    = "I encountered an issue processing your request. Please try again in a moment."
	fallbackEmptyReply = "I'm not sure what to say to that."
	fallbackRepeat     = "I didn't get that. Could you please repeat?"
	ackMemoryNoted     = "Okay, I've noted that down."
)

var saveMemoryTool = contract.ToolDef{
	Name:        "save_memory",
	Description: "Saves a significant piece of information, a user preference, or a key takeaway discussed during the conversation for future reference. Use this to remember important details that will enhance future interactions.",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"call_id": map[string]interface{}{
				"type":        "string",
				"description": "The ID of the current call/session. This helps associate the memory with the correct conversation log.",
			},
			"memory_content": map[string]interface{}{
				"type":        "string",
				"description": "The specific piece of information, preference, or key takeaway to remember. This should be a concise but descriptive summary of what needs to be recalled.",
			},
		},
		"required": []string{"call_id", "memory_content"},
	},
}

type saveMemoryArgs struct {
	CallID        string `json:"call_id"`
	MemoryContent string `json:"memory_content"`
}

// Saver is the slice of the memory layer the handler writes through when
// the model invokes the save_memory tool.
type Saver interface {
	Save(ctx context.Context, content string, discussionID string) error
}

// TranscriptExtractor runs the end-of-call memory extraction pipeline.
type TranscriptExtractor interface {
	Extract(ctx context.Context, callID string, transcript string) (int, error)
}

// Analyzer infers a mood observation from one utterance.
type Analyzer interface {
	Analyze(ctx context.Context, userMessage string) store.MoodObservation
}

// HandlerConfig carries the model tuning for live chat turns.
type HandlerConfig struct {
	ChatModel       string
	ChatTemperature float32
	TurnMemories    int
}

// Handler implements the webhook-facing call lifecycle: greeting on
// call-start, the tool-aware chat loop per utterance, and end-of-call
// memory extraction. Each invocation is independent; all state crosses
// through the durable stores.
type Handler struct {
	assembler *Assembler
	sessions  *store.SessionStore
	moods     *store.MoodStore
	memories  Saver
	extractor TranscriptExtractor
	analyzer  Analyzer
	router    model.Router
	cfg       HandlerConfig
	loc       *time.Location
}

func NewHandler(
	assembler *Assembler,
	sessions *store.SessionStore,
	moods *store.MoodStore,
	memories Saver,
	extractor TranscriptExtractor,
	analyzer Analyzer,
	router model.Router,
	cfg HandlerConfig,
	loc *time.Location,
) *Handler {
	return &Handler{
		assembler: assembler,
		sessions:  sessions,
		moods:     moods,
		memories:  memories,
		extractor: extractor,
		analyzer:  analyzer,
		router:    router,
		cfg:       cfg,
		loc:       loc,
	}
}

// HandleCallStart greets a freshly connected call and seeds its session
// log with the system turn and the greeting.
func (h *Handler) HandleCallStart(ctx context.Context, callID string) string {
	if strings.TrimSpace(callID) == "" {
		callID = GenerateSessionID(h.loc)
		slog.Info("No call id in event, generated one", "call_id", callID)
	}

	greeting := h.assembler.BuildGreeting(ctx, callID)

	turns := h.sessions.Load(callID)
	turns = h.assembler.RefreshSystemTurn(ctx, callID, turns)
	turns = append(turns, newTurn(store.RoleAssistant, greeting))
	if err := h.sessions.Save(callID, turns); err != nil {
		slog.Error("Failed to persist session at call start", "call_id", callID, "error", err)
	}

	return greeting
}

// HandleUserUtterance runs one chat turn: refresh context, augment with
// relevant memories, record a mood observation, call the model with the
// save_memory tool available, execute any tool calls, and reply.
func (h *Handler) HandleUserUtterance(ctx context.Context, callID string, utterance string) string {
	if strings.TrimSpace(callID) == "" || strings.TrimSpace(utterance) == "" {
		return fallbackRepeat
	}

	turns := h.sessions.Load(callID)
	turns = h.assembler.RefreshSystemTurn(ctx, callID, turns)
	turns = h.assembler.AugmentWithMemories(ctx, turns, utterance, h.cfg.TurnMemories)

	obs := h.analyzer.Analyze(ctx, utterance)
	if err := h.moods.Append(callID, obs); err != nil {
		slog.Warn("Failed to record mood observation", "call_id", callID, "error", err)
	}

	resp, err := h.router.Route(ctx, h.cfg.ChatModel, contract.CompletionRequest{
		Messages:    turnsToMessages(turns),
		Tools:       []contract.ToolDef{saveMemoryTool},
		ToolChoice:  "auto",
		Temperature: h.cfg.ChatTemperature,
	})
	if err != nil {
		slog.Error("Chat model call failed", "call_id", callID, "error", err)
		return fallbackRequest
	}

	var reply string
	if len(resp.ToolCalls) > 0 {
		turns, reply = h.runToolCalls(ctx, callID, turns, resp)
	} else {
		reply = strings.TrimSpace(resp.Content)
		if reply == "" {
			slog.Warn("Chat model returned an empty reply", "call_id", callID)
			reply = fallbackEmptyReply
		}
		turns = append(turns, newTurn(store.RoleAssistant, reply))
	}

	if err := h.sessions.Save(callID, turns); err != nil {
		slog.Error("Failed to persist session after turn", "call_id", callID, "error", err)
	}
	return reply
}

func (h *Handler) runToolCalls(ctx context.Context, callID string, turns []store.Turn, resp *contract.CompletionResponse) ([]store.Turn, string) {
	assistantTurn := newTurn(store.RoleAssistant, strings.TrimSpace(resp.Content))
	assistantTurn.ToolCalls = resp.ToolCalls
	turns = append(turns, assistantTurn)

	for _, tc := range resp.ToolCalls {
		if tc.Name != "save_memory" {
			slog.Warn("Model requested unknown tool", "call_id", callID, "tool", tc.Name)
			continue
		}

		saved := true
		message := "Memory saved."
		var args saveMemoryArgs
		if err := json.Unmarshal([]byte(tc.Input), &args); err != nil {
			slog.Error("Unparseable save_memory arguments", "call_id", callID, "error", err)
			saved, message = false, "Failed to save memory."
		} else {
			discussionID := args.CallID
			if discussionID == "" {
				discussionID = callID
			}
			if err := h.memories.Save(ctx, args.MemoryContent, discussionID); err != nil {
				slog.Error("save_memory tool failed", "call_id", callID, "error", err)
				saved, message = false, "Failed to save memory."
			}
		}

		result, _ := json.Marshal(map[string]interface{}{"success": saved, "message": message})
		toolTurn := newTurn(store.RoleTool, string(result))
		toolTurn.ToolCallID = tc.ID
		turns = append(turns, toolTurn)
	}

	followup, err := h.router.Route(ctx, h.cfg.ChatModel, contract.CompletionRequest{
		Messages:    turnsToMessages(turns),
		Temperature: h.cfg.ChatTemperature,
	})

	reply := ackMemoryNoted
	if err != nil {
		slog.Warn("Follow-up call after tool execution failed", "call_id", callID, "error", err)
	} else if content := strings.TrimSpace(followup.Content); content != "" {
		reply = content
	}

	return append(turns, newTurn(store.RoleAssistant, reply)), reply
}

// HandleCallEnd reconstructs the conversation transcript from the session
// log (falling back to a transcript supplied in the event, if any) and
// runs memory extraction over it. Extraction failure never fails the
// event; the call is already over.
func (h *Handler) HandleCallEnd(ctx context.Context, callID string, directTranscript string) {
	transcript := BuildTranscript(h.sessions.Load(callID))
	if transcript == "" {
		if strings.TrimSpace(directTranscript) == "" {
			slog.Info("No transcript available, skipping memory extraction", "call_id", callID)
			return
		}
		slog.Info("Using transcript from event payload", "call_id", callID)
		transcript = directTranscript
	}

	saved, err := h.extractor.Extract(ctx, callID, transcript)
	if err != nil {
		slog.Error("Memory extraction failed", "call_id", callID, "error", err)
		return
	}
	slog.Info("Call ended", "call_id", callID, "memories_saved", saved)
}

// BuildTranscript flattens user and assistant turns into "ROLE: content"
// lines. Assistant tool invocations are annotated inline so the extractor
// sees what the assistant chose to remember mid-call.
func BuildTranscript(turns []store.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		if turn.Role != store.RoleUser && turn.Role != store.RoleAssistant {
			continue
		}
		content := turn.Content
		for _, tc := range turn.ToolCalls {
			content += fmt.Sprintf(" (Tool call: %s with args %s)", tc.Name, tc.Input)
		}
		lines = append(lines, strings.ToUpper(string(turn.Role))+": "+content)
	}
	return strings.Join(lines, "\n")
}

const sessionIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateSessionID produces a chat_YYYYMMDD_XXXX identifier for events
// that arrive without a call id.
func GenerateSessionID(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = sessionIDLetters[rand.Intn(len(sessionIDLetters))]
	}
	return fmt.Sprintf("chat_%s_%s", time.Now().In(loc).Format("20060102"), suffix)
}

func turnsToMessages(turns []store.Turn) []contract.Message {
	messages := make([]contract.Message, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, turn.ToMessage())
	}
	return messages
}
