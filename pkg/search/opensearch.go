package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// OpenSearchConfig holds cluster connection settings.
type OpenSearchConfig struct {
	Addresses    []string `env:"OPENSEARCH_ADDRESSES" envSeparator:","`
	Username     string   `env:"OPENSEARCH_USERNAME"`
	Password     string   `env:"OPENSEARCH_PASSWORD"`
	MaxRetries   int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	DisableRetry bool     `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`
	IndexPrefix  string   `env:"OPENSEARCH_INDEX_PREFIX" envDefault:"emailkit"`
}

// NewOpenSearchClient creates a client and verifies the cluster answers.
func NewOpenSearchClient(ctx context.Context, cfg OpenSearchConfig) (*opensearch.Client, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.DisableRetry,
	})
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	if err := OpenSearchHealthcheck(client)(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// OpenSearchHealthcheck calls the cluster info endpoint.
func OpenSearchHealthcheck(client *opensearch.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		resp, err := client.Info(client.Info.WithContext(ctx), client.Info.WithErrorTrace())
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		defer resp.Body.Close()
		if resp.IsError() {
			return fmt.Errorf("%w: %s", ErrHealthcheckFailed, resp.Status())
		}
		return nil
	}
}

// OpenSearchIndex stores each kind in its own index named "<prefix>-<kind>".
type OpenSearchIndex struct {
	transport opensearchapi.Transport
	prefix    string
}

// NewOpenSearchIndex wraps a transport, normally an *opensearch.Client.
func NewOpenSearchIndex(transport opensearchapi.Transport, prefix string) *OpenSearchIndex {
	if prefix == "" {
		prefix = "emailkit"
	}
	return &OpenSearchIndex{transport: transport, prefix: strings.ToLower(prefix)}
}

func (o *OpenSearchIndex) indexName(kind string) string {
	if kind == "" {
		return o.prefix + "-*"
	}
	return o.prefix + "-" + strings.ToLower(kind)
}

func (o *OpenSearchIndex) Put(ctx context.Context, doc Doc) error {
	if doc.Kind == "" || doc.ID == "" {
		return ErrInvalidDoc
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	resp, err := opensearchapi.IndexRequest{
		Index:      o.indexName(doc.Kind),
		DocumentID: doc.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}.Do(ctx, o.transport)
	return checkResponse(resp, err, "index")
}

func (o *OpenSearchIndex) Delete(ctx context.Context, kind, id string) error {
	resp, err := opensearchapi.DeleteRequest{
		Index:      o.indexName(kind),
		DocumentID: id,
		Refresh:    "true",
	}.Do(ctx, o.transport)
	if err == nil && resp != nil && resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil
	}
	return checkResponse(resp, err, "delete")
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string  `json:"_id"`
			Score  float64 `json:"_score"`
			Source Doc     `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (o *OpenSearchIndex) Search(ctx context.Context, q Query) ([]Hit, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	body, err := json.Marshal(buildQuery(q, limit))
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	allowNoIndices := true
	resp, err := opensearchapi.SearchRequest{
		Index:             []string{o.indexName(q.Kind)},
		Body:              bytes.NewReader(body),
		AllowNoIndices:    &allowNoIndices,
		IgnoreUnavailable: &allowNoIndices,
	}.Do(ctx, o.transport)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: search: %s", ErrRequestFailed, readError(resp.Body))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	hits := make([]Hit, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		kind := h.Source.Kind
		if kind == "" {
			kind = q.Kind
		}
		hits = append(hits, Hit{Kind: kind, ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// buildQuery renders a bool query: multi_match on text, term filters on
// tags and kind.
func buildQuery(q Query, limit int) map[string]any {
	var must []any
	if text := strings.TrimSpace(q.Text); text != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":    text,
				"type":     "bool_prefix",
				"operator": "and",
				"fields":   []string{"name^3", "tags^2", "category", "description"},
			},
		})
	} else {
		must = append(must, map[string]any{"match_all": map[string]any{}})
	}

	var filter []any
	for _, tag := range q.Tags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			filter = append(filter, map[string]any{"term": map[string]any{"tags.keyword": tag}})
		}
	}
	if q.Kind != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"kind.keyword": q.Kind}})
	}

	boolQuery := map[string]any{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	return map[string]any{
		"size":  limit,
		"query": map[string]any{"bool": boolQuery},
	}
}

func checkResponse(resp *opensearchapi.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRequestFailed, op, err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("%w: %s: %s", ErrRequestFailed, op, readError(resp.Body))
	}
	return nil
}

func readError(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 2048))
	return strings.TrimSpace(string(b))
}
