package ai

import (
	"context"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/config"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// ClientProvider hands out backend clients: the default one built from configuration,
// and clients bound to a per-agent credential override.
type ClientProvider struct {
	provider      ProviderName
	baseOpts      ClientOptions
	model         string
	registry      *ConstructorRegistry
	defaultClient Client
}

// NewClientProvider builds the default client. Without a credential for the selected
// provider the default client is the offline placeholder.
func NewClientProvider(ctx context.Context, cfg config.AIConfig) (*ClientProvider, error) {
	return NewClientProviderWithRegistry(ctx, cfg, NewConstructorRegistry())
}

// NewClientProviderWithRegistry is NewClientProvider with custom constructors.
func NewClientProviderWithRegistry(ctx context.Context, cfg config.AIConfig, registry *ConstructorRegistry) (*ClientProvider, error) {
	name := ParseProviderName(cfg.Provider)
	if !name.IsValid() {
		return nil, errors.Wrapf(errors.ErrBackendNotConfigured, "unsupported AI provider %q", cfg.Provider)
	}

	model := cfg.Model
	if model == "" {
		model = name.DefaultModel()
	}

	p := &ClientProvider{
		provider: name,
		baseOpts: ClientOptions{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout},
		model:    model,
		registry: registry,
	}

	log := logger.Get().With("component", "ai_client_provider")

	key := cfg.Key()
	if key == "" {
		log.Warnw("No API key configured, analyses will return placeholder text", "provider", name)
		p.defaultClient = Instrument(NewPlaceholderClient())
		return p, nil
	}

	client, err := p.build(ctx, key)
	if err != nil {
		return nil, err
	}
	p.defaultClient = client

	log.Infow("Analysis backend configured", "provider", name, "model", model)
	return p, nil
}

// Default returns the process-wide client
func (p *ClientProvider) Default() Client {
	return p.defaultClient
}

// ForKey returns a fresh client of the configured provider bound to apiKey.
// An empty key falls back to the placeholder client.
func (p *ClientProvider) ForKey(ctx context.Context, apiKey string) (Client, error) {
	if apiKey == "" {
		return Instrument(NewPlaceholderClient()), nil
	}
	return p.build(ctx, apiKey)
}

// DefaultModel is the model agents use unless their config names another
func (p *ClientProvider) DefaultModel() string {
	return p.model
}

// ProviderName returns the configured provider
func (p *ClientProvider) ProviderName() ProviderName {
	return p.provider
}

func (p *ClientProvider) build(ctx context.Context, apiKey string) (Client, error) {
	opts := p.baseOpts
	opts.APIKey = apiKey

	client, err := p.registry.Build(ctx, p.provider, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s client", p.provider)
	}

	return Instrument(client), nil
}
