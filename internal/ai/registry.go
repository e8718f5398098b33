package ai

import (
	"context"
	"strings"
	"sync"

	"github.com/botize/botize/internal/apperr"
)

type ProviderFactory func(ctx context.Context, model string) (Provider, error)

// Registry maps provider discriminators to factories. The deployed set is
// closed (openai, anthropic) but adding a third provider only touches
// registration, not call sites.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

func (r *Registry) Register(name string, f ProviderFactory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Get(ctx context.Context, name string, model string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "invalid AI provider")
	}
	return f(ctx, model)
}

// Dispatch resolves the provider and sends one chat turn. Input is
// validated before any network work; a single backend call, no retries.
func (r *Registry) Dispatch(ctx context.Context, provider, model, system string, history []Message, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperr.New(apperr.KindValidation, "message is required")
	}
	p, err := r.Get(ctx, provider, model)
	if err != nil {
		return "", err
	}
	return p.Chat(ctx, system, history, message)
}
