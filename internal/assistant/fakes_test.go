package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/aurelabs/aura/internal/model/contract"
	"github.com/aurelabs/aura/internal/store"
)

type fakeRouter struct {
	mu        sync.Mutex
	err       error
	queue     []*contract.CompletionResponse
	responses []string
	requests  []contract.CompletionRequest
}

func (f *fakeRouter) Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.queue) > 0 {
		resp := f.queue[0]
		f.queue = f.queue[1:]
		return resp, nil
	}
	if len(f.responses) > 0 {
		content := f.responses[0]
		f.responses = f.responses[1:]
		return &contract.CompletionResponse{Content: content}, nil
	}
	return &contract.CompletionResponse{Content: "ok"}, nil
}

func (f *fakeRouter) RouteEmbedding(ctx context.Context, model string, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

type fakeRetriever struct {
	mu       sync.Mutex
	memories []string
	queries  []string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, k int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if k < len(f.memories) {
		return f.memories[:k]
	}
	return f.memories
}

type fakeSaver struct {
	mu    sync.Mutex
	err   error
	saved []string
	ids   []string
}

func (f *fakeSaver) Save(ctx context.Context, content string, discussionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, content)
	f.ids = append(f.ids, discussionID)
	return nil
}

type fakeExtractor struct {
	mu          sync.Mutex
	err         error
	saved       int
	transcripts []string
}

func (f *fakeExtractor) Extract(ctx context.Context, callID string, transcript string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transcripts = append(f.transcripts, transcript)
	return f.saved, f.err
}

type fakeAnalyzer struct {
	mood string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, userMessage string) store.MoodObservation {
	mood := f.mood
	if mood == "" {
		mood = "Neutral"
	}
	return store.MoodObservation{Mood: mood, Reasoning: "test", Timestamp: time.Now()}
}
