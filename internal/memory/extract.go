package memory

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	auraErrors "github.com/aurelabs/aura/internal/errors"
	"github.com/aurelabs/aura/internal/model"
	"github.com/aurelabs/aura/internal/model/contract"
	"github.com/aurelabs/aura/internal/prompt"
)

const noSignificantInfo = "No significant information to extract."

const extractionSystemPrompt = "You are an AI assistant tasked with extracting key pieces of information, " +
	"user preferences, or significant events from the provided conversation transcript. " +
	"List each item on a new line. If no specific information worth remembering is found, output '" + NothingToRemember + "'."

const extractionUserPrompt = `Extract key information from the following conversation transcript.
Focus on facts, preferences, stated goals, or significant events.
Be concise and list each piece of information as a separate point.
If no specific information worth remembering is found, output "` + noSignificantInfo + `"

Transcript:
{transcript}`

var (
	enumerationMarker = regexp.MustCompile(`^\s*\d+[.\-)]\s*`)
	bulletMarker      = regexp.MustCompile(`^\s*[-•*+]+\s*`)
)

// ExtractorConfig carries the model tuning for the extraction call.
type ExtractorConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Extractor turns a finished call's transcript into discrete memory
// statements and persists them. Best effort and idempotent per call:
// re-running on the same transcript creates duplicate records, memories
// are never deduplicated or merged.
type Extractor struct {
	router model.Router
	memory *VectorMemory
	cfg    ExtractorConfig
}

func NewExtractor(router model.Router, memory *VectorMemory, cfg ExtractorConfig) *Extractor {
	return &Extractor{router: router, memory: memory, cfg: cfg}
}

// Extract asks the model to list memorable facts from the transcript,
// cleans the reply, and batch-persists the survivors tagged with callID.
// Returns how many memories were written.
func (e *Extractor) Extract(ctx context.Context, callID string, transcript string) (int, error) {
	if strings.TrimSpace(transcript) == "" {
		return 0, fmt.Errorf("%w: transcript is empty", auraErrors.ErrInvalidInput)
	}

	rendered, err := prompt.Render(extractionUserPrompt, map[string]string{"transcript": transcript})
	if err != nil {
		return 0, fmt.Errorf("render extraction prompt: %w", err)
	}

	resp, err := e.router.Route(ctx, e.cfg.Model, contract.CompletionRequest{
		Messages: []contract.Message{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: rendered},
		},
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
	})
	if err != nil {
		return 0, fmt.Errorf("extraction model call: %w", err)
	}

	reply := strings.TrimSpace(resp.Content)
	if reply == "" || strings.EqualFold(reply, NothingToRemember) || strings.EqualFold(reply, noSignificantInfo) {
		slog.Info("No memories to extract", "call_id", callID)
		return 0, nil
	}

	memories := CleanExtractedLines(reply)
	if len(memories) == 0 {
		slog.Info("No memories left after cleaning", "call_id", callID)
		return 0, nil
	}

	return e.memory.BatchSave(ctx, memories, callID)
}

// CleanExtractedLines splits a model reply into candidate memories:
// per line it strips a leading enumeration marker, then a leading bullet
// marker, trims, and drops empties and the model's "nothing" phrases.
func CleanExtractedLines(reply string) []string {
	lines := strings.Split(reply, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = enumerationMarker.ReplaceAllString(line, "")
		line = bulletMarker.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, NothingToRemember) || strings.EqualFold(line, noSignificantInfo) {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return cleaned
}
