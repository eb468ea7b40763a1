// Package markets maps provider names in record frontmatter to the adapter
// that speaks that provider's API.
package markets

import (
	"time"

	"predtrack/config"
	"predtrack/internal/markets/kalshi"
	"predtrack/internal/markets/polymarket"
	"predtrack/models"
)

// Registry holds the configured provider adapters keyed by name.
type Registry struct {
	providers map[string]models.MarketProvider
}

// NewRegistry builds the default registry from configuration.
func NewRegistry(cfg *config.Config) *Registry {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second

	r := &Registry{providers: make(map[string]models.MarketProvider)}
	r.Register(polymarket.NewClient(polymarket.ClientOptions{
		BaseURL:        cfg.PolymarketBaseURL,
		RequestTimeout: timeout,
		RequestsPerSec: cfg.RequestsPerSec,
	}))
	r.Register(kalshi.NewClient(kalshi.ClientOptions{
		BaseURL:        cfg.KalshiBaseURL,
		RequestTimeout: timeout,
		RequestsPerSec: cfg.RequestsPerSec,
	}))
	return r
}

// NewRegistryOf builds a registry from explicit providers, used by tests to
// substitute fakes.
func NewRegistryOf(providers ...models.MarketProvider) *Registry {
	r := &Registry{providers: make(map[string]models.MarketProvider)}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider under its own name.
func (r *Registry) Register(p models.MarketProvider) {
	r.providers[p.Name()] = p
}

// Lookup returns the adapter for a provider name.
func (r *Registry) Lookup(name string) (models.MarketProvider, bool) {
	p, ok := r.providers[name]
	return p, ok
}
