package ai

import (
	"context"
	"sync"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

// Constructor builds a backend client for one provider.
type Constructor func(ctx context.Context, opts ClientOptions) (Client, error)

// ConstructorRegistry maps provider names to client constructors.
type ConstructorRegistry struct {
	constructors map[ProviderName]Constructor
	mu           sync.RWMutex
}

// NewConstructorRegistry creates a registry preloaded with the built-in backends.
func NewConstructorRegistry() *ConstructorRegistry {
	r := &ConstructorRegistry{constructors: make(map[ProviderName]Constructor)}

	r.Register(ProviderNameOpenAI, func(_ context.Context, opts ClientOptions) (Client, error) {
		return NewOpenAIClient(opts)
	})
	r.Register(ProviderNameDeepSeek, func(_ context.Context, opts ClientOptions) (Client, error) {
		return NewDeepSeekClient(opts)
	})
	r.Register(ProviderNameAnthropic, func(_ context.Context, opts ClientOptions) (Client, error) {
		return NewAnthropicClient(opts)
	})
	r.Register(ProviderNameGoogle, func(ctx context.Context, opts ClientOptions) (Client, error) {
		return NewGeminiClient(ctx, opts)
	})

	return r
}

// Register adds or replaces the constructor for a provider.
func (r *ConstructorRegistry) Register(name ProviderName, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[name] = ctor
}

// Build creates a client for the provider.
func (r *ConstructorRegistry) Build(ctx context.Context, name ProviderName, opts ClientOptions) (Client, error) {
	r.mu.RLock()
	ctor, ok := r.constructors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(errors.ErrBackendNotConfigured, "provider %s", name)
	}

	return ctor(ctx, opts)
}
