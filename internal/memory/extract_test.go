package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(router *fakeRouter, index *fakeIndex) *Extractor {
	mem := newTestMemory(router, index)
	return NewExtractor(router, mem, ExtractorConfig{
		Model:       "test-extraction",
		Temperature: 0.2,
		MaxTokens:   800,
	})
}

func TestExtractRejectsEmptyTranscript(t *testing.T) {
	router := &fakeRouter{}
	e := newTestExtractor(router, &fakeIndex{})

	_, err := e.Extract(context.Background(), "c1", "   ")
	assert.Error(t, err)
	assert.Zero(t, router.routeCalls)
}

func TestExtractSentinelReplyWritesNothing(t *testing.T) {
	router := &fakeRouter{reply: "NOTHING_TO_REMEMBER"}
	index := &fakeIndex{}
	e := newTestExtractor(router, index)

	saved, err := e.Extract(context.Background(), "c1", "USER: hi\nASSISTANT: hello")
	require.NoError(t, err)
	assert.Zero(t, saved)
	assert.Empty(t, index.records)
	assert.Zero(t, router.embedCalls)
}

func TestExtractNoInfoPhraseWritesNothing(t *testing.T) {
	router := &fakeRouter{reply: "no significant information to extract."}
	index := &fakeIndex{}
	e := newTestExtractor(router, index)

	saved, err := e.Extract(context.Background(), "c1", "USER: hi")
	require.NoError(t, err)
	assert.Zero(t, saved)
	assert.Empty(t, index.records)
}

func TestExtractCleansAndPersists(t *testing.T) {
	router := &fakeRouter{reply: "1. Likes hiking\n- Lives in Denver"}
	index := &fakeIndex{}
	e := newTestExtractor(router, index)

	saved, err := e.Extract(context.Background(), "c1", "USER: I like hiking and I live in Denver")
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	contents := make([]string, 0, len(index.records))
	for _, rec := range index.records {
		contents = append(contents, rec.Content)
		assert.Equal(t, "c1", rec.Metadata["discussion_id"])
	}
	assert.ElementsMatch(t, []string{"Likes hiking", "Lives in Denver"}, contents)
}

func TestExtractRendersTranscriptIntoPrompt(t *testing.T) {
	router := &fakeRouter{reply: "Likes hiking"}
	e := newTestExtractor(router, &fakeIndex{})

	transcript := "USER: I like hiking\nASSISTANT: Noted!"
	_, err := e.Extract(context.Background(), "c1", transcript)
	require.NoError(t, err)

	require.Len(t, router.lastRequest.Messages, 2)
	userMessage := router.lastRequest.Messages[1].Content
	assert.Contains(t, userMessage, transcript)
	assert.NotContains(t, userMessage, "{transcript}")
}

func TestExtractModelFailure(t *testing.T) {
	router := &fakeRouter{routeErr: errors.New("model offline")}
	index := &fakeIndex{}
	e := newTestExtractor(router, index)

	_, err := e.Extract(context.Background(), "c1", "USER: hi")
	assert.Error(t, err)
	assert.Empty(t, index.records)
}

func TestExtractUsesLowTemperature(t *testing.T) {
	router := &fakeRouter{reply: "Likes hiking"}
	e := newTestExtractor(router, &fakeIndex{})

	_, err := e.Extract(context.Background(), "c1", "USER: I like hiking")
	require.NoError(t, err)
	assert.InDelta(t, 0.2, router.lastRequest.Temperature, 0.001)
	assert.Equal(t, 800, router.lastRequest.MaxTokens)
}

func TestCleanExtractedLines(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{
			name:  "numbered list",
			reply: "1. Likes hiking\n2) Has a dog\n3- Works remotely",
			want:  []string{"Likes hiking", "Has a dog", "Works remotely"},
		},
		{
			name:  "bullets",
			reply: "- Likes hiking\n• Has a dog\n** Works remotely",
			want:  []string{"Likes hiking", "Has a dog", "Works remotely"},
		},
		{
			name:  "number then bullet",
			reply: "1. - Likes hiking",
			want:  []string{"Likes hiking"},
		},
		{
			name:  "drops sentinels and blanks",
			reply: "Likes hiking\n\nNOTHING_TO_REMEMBER\nNo significant information to extract.",
			want:  []string{"Likes hiking"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanExtractedLines(tt.reply))
		})
	}
}
