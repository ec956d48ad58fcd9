package model

import (
	"context"

	"github.com/aurelabs/aura/internal/model/contract"
)

// Router dispatches completion and embedding requests to the provider
// registered for a model name. It is the only handle the rest of the
// system holds on the model capabilities, so tests can substitute fakes
// without touching package-level state.
type Router interface {
	Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error)
	RouteEmbedding(ctx context.Context, model string, text string) ([]float32, error)
}

type Provider interface {
	Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error)
	Embed(ctx context.Context, model string, text string) ([]float32, error)
	Name() string
}
