package model

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aurelabs/aura/internal/config"
	auraErrors "github.com/aurelabs/aura/internal/errors"
	"github.com/aurelabs/aura/internal/logger"
	"github.com/aurelabs/aura/internal/model/contract"
	anthropicProvider "github.com/aurelabs/aura/internal/model/providers/anthropic"
	geminiProvider "github.com/aurelabs/aura/internal/model/providers/gemini"
	openaiProvider "github.com/aurelabs/aura/internal/model/providers/openai"
)

// DefaultRouter implements Router over the configured model registry.
type DefaultRouter struct {
	registry  map[string]config.ModelRegistry
	providers map[string]Provider
	mu        sync.RWMutex
}

func NewRouter(cfg config.ModelsConfig) (*DefaultRouter, error) {
	r := &DefaultRouter{
		registry:  make(map[string]config.ModelRegistry),
		providers: make(map[string]Provider),
	}

	for _, entry := range cfg.Registry {
		if entry.Name == "" {
			continue
		}
		r.registry[entry.Name] = entry
	}
	if len(r.registry) == 0 {
		return nil, fmt.Errorf("model registry is empty")
	}

	return r, nil
}

func (r *DefaultRouter) Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	provider, err := r.resolveProvider(model)
	if err != nil {
		return nil, err
	}

	slog.Debug("Routing completion request", "model", model, "provider", provider.Name(), "call_id", logger.GetCallID(ctx))

	req.Model = model
	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auraErrors.ErrCapability, err)
	}
	return resp, nil
}

func (r *DefaultRouter) RouteEmbedding(ctx context.Context, model string, text string) ([]float32, error) {
	provider, err := r.resolveProvider(model)
	if err != nil {
		return nil, err
	}

	vec, err := provider.Embed(ctx, model, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auraErrors.ErrCapability, err)
	}
	return vec, nil
}

func (r *DefaultRouter) resolveProvider(model string) (Provider, error) {
	entry, ok := r.registry[model]
	if !ok {
		return nil, fmt.Errorf("%w: model %q is not registered", auraErrors.ErrInvalidInput, model)
	}

	r.mu.RLock()
	provider, ok := r.providers[entry.Provider]
	r.mu.RUnlock()
	if ok {
		return provider, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if provider, ok := r.providers[entry.Provider]; ok {
		return provider, nil
	}

	provider, err := r.buildProvider(entry)
	if err != nil {
		return nil, err
	}
	r.providers[entry.Provider] = provider
	return provider, nil
}

func (r *DefaultRouter) buildProvider(entry config.ModelRegistry) (Provider, error) {
	switch entry.Provider {
	case "openai":
		return openaiProvider.New(entry.APIKey, entry.BaseURL), nil
	case "anthropic":
		return anthropicProvider.New(entry.APIKey), nil
	case "gemini":
		return geminiProvider.New(entry.APIKey)
	default:
		return nil, fmt.Errorf("unknown provider %q for model %q", entry.Provider, entry.Name)
	}
}
