package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aurelabs/aura/internal/concurrency"
	auraErrors "github.com/aurelabs/aura/internal/errors"
	"github.com/aurelabs/aura/internal/model"
	"github.com/aurelabs/aura/internal/store"

	"github.com/oklog/ulid/v2"
)

// NothingToRemember is the marker the extraction prompt tells the model to
// emit when a transcript holds nothing worth keeping. It is rejected as
// memory content wherever it shows up, case-insensitively.
const NothingToRemember = "NOTHING_TO_REMEMBER"

// Index is the slice of the vector store the memory layer needs.
type Index interface {
	Upsert(ctx context.Context, records []store.MemoryRecord) error
	Query(ctx context.Context, embedding []float32, k int) ([]store.MemoryResult, error)
	Count() int
}

// VectorMemory persists and retrieves long-term memories through an
// embedding model and a similarity index. Retrieval is fail-soft: a dead
// embedding backend degrades recall, it never takes a call down.
type VectorMemory struct {
	router         model.Router
	index          Index
	embeddingModel string
	dimension      int
}

func NewVectorMemory(router model.Router, index Index, embeddingModel string, dimension int) *VectorMemory {
	return &VectorMemory{
		router:         router,
		index:          index,
		embeddingModel: embeddingModel,
		dimension:      dimension,
	}
}

// Embed converts text to a vector. Empty input returns nil without calling
// the capability. A capability failure returns an all-zero vector of the
// configured dimension so downstream writes still have a well-formed shape.
func (m *VectorMemory) Embed(ctx context.Context, text string) []float32 {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	embedding, err := m.embed(ctx, text)
	if err != nil {
		slog.Warn("Embedding failed, using zero vector", "error", err)
		return make([]float32, m.dimension)
	}
	return embedding
}

// Save embeds one snippet and upserts it with a fresh id. Empty text and
// the nothing-to-remember marker are rejected before any network call.
func (m *VectorMemory) Save(ctx context.Context, content string, discussionID string) error {
	if !storable(content) {
		return fmt.Errorf("%w: content is empty or a no-op marker", auraErrors.ErrInvalidInput)
	}

	embedding, err := m.embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed memory: %w", err)
	}

	record := m.newRecord(content, embedding, discussionID)
	if err := m.index.Upsert(ctx, []store.MemoryRecord{record}); err != nil {
		return fmt.Errorf("upsert memory: %w", err)
	}

	slog.Debug("Memory saved", "id", record.ID, "discussion_id", discussionID)
	return nil
}

// BatchSave filters, embeds concurrently, and writes the survivors in one
// index call. Entries whose embedding fails are dropped with a warning, not
// retried. Returns how many records were written; zero with a nil error
// means nothing was worth saving.
func (m *VectorMemory) BatchSave(ctx context.Context, contents []string, discussionID string) (int, error) {
	candidates := make([]string, 0, len(contents))
	for _, c := range contents {
		if storable(c) {
			candidates = append(candidates, strings.TrimSpace(c))
		}
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	embeddings := make([][]float32, len(candidates))
	var wg sync.WaitGroup
	for i, text := range candidates {
		wg.Add(1)
		concurrency.SafeGo(func() {
			defer wg.Done()
			embedding, err := m.embed(ctx, text)
			if err != nil {
				slog.Warn("Dropping memory, embedding failed", "error", err)
				return
			}
			embeddings[i] = embedding
		}, nil)
	}
	wg.Wait()

	records := make([]store.MemoryRecord, 0, len(candidates))
	for i, embedding := range embeddings {
		if embedding == nil {
			continue
		}
		records = append(records, m.newRecord(candidates[i], embedding, discussionID))
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("batch save: all %d embedding attempts failed", len(candidates))
	}

	if err := m.index.Upsert(ctx, records); err != nil {
		return 0, fmt.Errorf("batch upsert: %w", err)
	}

	slog.Info("Memories saved", "count", len(records), "discussion_id", discussionID)
	return len(records), nil
}

// Retrieve returns up to k memory texts ranked most-similar-first. It
// never raises: an invalid query, an empty index, or any capability
// failure yields an empty list.
func (m *VectorMemory) Retrieve(ctx context.Context, query string, k int) []string {
	if strings.TrimSpace(query) == "" || k <= 0 {
		return nil
	}

	// An empty index makes both the embedding call and the query futile.
	total := m.index.Count()
	if total == 0 {
		return nil
	}
	if k > total {
		k = total
	}

	embedding, err := m.embed(ctx, query)
	if err != nil {
		slog.Warn("Memory retrieval skipped, embedding failed", "error", err)
		return nil
	}

	results, err := m.index.Query(ctx, embedding, k)
	if err != nil {
		slog.Warn("Memory retrieval failed", "error", err)
		return nil
	}

	texts := make([]string, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.Content) == "" {
			continue
		}
		texts = append(texts, r.Content)
	}
	return texts
}

func (m *VectorMemory) embed(ctx context.Context, text string) ([]float32, error) {
	return m.router.RouteEmbedding(ctx, m.embeddingModel, text)
}

func (m *VectorMemory) newRecord(content string, embedding []float32, discussionID string) store.MemoryRecord {
	return store.MemoryRecord{
		ID:        ulid.Make().String(),
		Embedding: embedding,
		Content:   content,
		Metadata: map[string]string{
			"discussion_id": discussionID,
			"timestamp":     time.Now().Format(time.RFC3339),
			"kind":          "memory",
		},
	}
}

func storable(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	return !strings.EqualFold(trimmed, NothingToRemember)
}
