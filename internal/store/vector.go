package store

import (
	"context"
	"fmt"
	"os"

	"github.com/philippgille/chromem-go"
)

// CollectionMemories is the single shared namespace for long-term
// memories. It is not partitioned per call: any future call can retrieve
// any memory by semantic similarity alone.
const CollectionMemories = "memories"

// MemoryRecord is one embedded snippet bound for the index.
type MemoryRecord struct {
	ID        string
	Embedding []float32
	Content   string
	Metadata  map[string]string
}

// MemoryResult is one ranked hit from a similarity query.
type MemoryResult struct {
	ID       string
	Score    float32
	Content  string
	Metadata map[string]string
}

// VectorIndex wraps a persistent chromem collection. Embeddings are always
// supplied by the caller; the collection has no embedding function of its
// own. Writes are self-contained record batches, so concurrent batches
// from different calls append without corrupting the index, though there
// is no ordering or isolation guarantee between a write and a query.
type VectorIndex struct {
	db  *chromem.DB
	col *chromem.Collection
}

func NewVectorIndex(dataDir string) (*VectorIndex, error) {
	dir := VectorsDir(dataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create vectors dir: %w", err)
	}

	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("init vector db: %w", err)
	}

	col, err := db.GetOrCreateCollection(CollectionMemories, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get or create collection %s: %w", CollectionMemories, err)
	}

	return &VectorIndex{db: db, col: col}, nil
}

// Upsert writes a batch of records. AddDocuments is an upsert in chromem.
func (v *VectorIndex) Upsert(ctx context.Context, records []MemoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, chromem.Document{
			ID:        r.ID,
			Embedding: r.Embedding,
			Content:   r.Content,
			Metadata:  r.Metadata,
		})
	}
	return v.col.AddDocuments(ctx, docs, 1)
}

// Query returns up to k records ranked most-similar-first. k must not
// exceed Count; callers clamp it first.
func (v *VectorIndex) Query(ctx context.Context, embedding []float32, k int) ([]MemoryResult, error) {
	docs, err := v.col.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, err
	}

	results := make([]MemoryResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, MemoryResult{
			ID:       doc.ID,
			Score:    doc.Similarity,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		})
	}
	return results, nil
}

// Count reports how many records the collection holds.
func (v *VectorIndex) Count() int {
	return v.col.Count()
}
