// Package search indexes named entities (blueprints, presets, recipes) for
// free-text lookup.
//
// Index has two implementations: MemoryIndex, a token matcher used in tests
// and single-process deployments, and OpenSearchIndex, which keeps one
// OpenSearch index per entity kind. Open picks one from Config.
package search

import (
	"context"
	"errors"
)

var (
	ErrConnectionFailed  = errors.New("search: connection failed")
	ErrHealthcheckFailed = errors.New("search: healthcheck failed")
	ErrRequestFailed     = errors.New("search: request failed")
	ErrInvalidDoc        = errors.New("search: document requires kind and id")
	ErrUnknownDriver     = errors.New("search: unknown driver")
)

// Doc is the searchable projection of an entity.
type Doc struct {
	Kind        string   `json:"kind"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Query selects documents. Empty Text matches everything that passes the
// Kind and Tags filters. Every tag must be present on a hit.
type Query struct {
	Kind  string
	Text  string
	Tags  []string
	Limit int
}

// Hit is one search result, ordered by descending Score.
type Hit struct {
	Kind  string  `json:"kind"`
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Index stores and queries documents.
type Index interface {
	Put(ctx context.Context, doc Doc) error
	Delete(ctx context.Context, kind, id string) error
	Search(ctx context.Context, q Query) ([]Hit, error)
}

// IDs extracts hit IDs in order.
func IDs(hits []Hit) []string {
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	return ids
}

const defaultLimit = 50
