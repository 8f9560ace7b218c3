package search

import (
	"context"
	"fmt"
	"strings"
)

// Config selects the index implementation.
type Config struct {
	Driver     string `env:"SEARCH_DRIVER" envDefault:"memory"`
	OpenSearch OpenSearchConfig
}

func noopHealthcheck(context.Context) error { return nil }

// Open returns the configured index and a healthcheck for it.
func Open(ctx context.Context, cfg Config) (Index, func(context.Context) error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return NewMemoryIndex(), noopHealthcheck, nil
	case "opensearch":
		client, err := NewOpenSearchClient(ctx, cfg.OpenSearch)
		if err != nil {
			return nil, nil, err
		}
		return NewOpenSearchIndex(client, cfg.OpenSearch.IndexPrefix), OpenSearchHealthcheck(client), nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
