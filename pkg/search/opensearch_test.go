package search_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/search"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

// fakeTransport answers OpenSearch API calls with canned responses.
type fakeTransport struct {
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeTransport) Perform(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	f.requests = append(f.requests, recordedRequest{method: req.Method, path: req.URL.Path, body: body})
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func TestOpenSearchIndex_Put(t *testing.T) {
	t.Parallel()
	tr := &fakeTransport{body: `{"result":"created"}`}
	idx := search.NewOpenSearchIndex(tr, "EmailKit")

	err := idx.Put(context.Background(), search.Doc{Kind: "blueprint", ID: "welcome", Name: "Welcome"})
	require.NoError(t, err)
	require.Len(t, tr.requests, 1)
	assert.Equal(t, http.MethodPut, tr.requests[0].method)
	assert.Equal(t, "/emailkit-blueprint/_doc/welcome", tr.requests[0].path)
	assert.JSONEq(t, `{"kind":"blueprint","id":"welcome","name":"Welcome"}`, tr.requests[0].body)

	assert.ErrorIs(t, idx.Put(context.Background(), search.Doc{Kind: "x"}), search.ErrInvalidDoc)
}

func TestOpenSearchIndex_Search(t *testing.T) {
	t.Parallel()
	tr := &fakeTransport{body: `{"hits":{"hits":[
		{"_id":"welcome","_score":2.5,"_source":{"kind":"blueprint","id":"welcome"}},
		{"_id":"receipt","_score":1.0,"_source":{}}
	]}}`}
	idx := search.NewOpenSearchIndex(tr, "")

	hits, err := idx.Search(context.Background(), search.Query{Kind: "blueprint", Text: "wel", Tags: []string{"Onboarding"}, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []search.Hit{
		{Kind: "blueprint", ID: "welcome", Score: 2.5},
		{Kind: "blueprint", ID: "receipt", Score: 1.0},
	}, hits)

	require.Len(t, tr.requests, 1)
	assert.Equal(t, "/emailkit-blueprint/_search", tr.requests[0].path)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(tr.requests[0].body), &body))
	assert.EqualValues(t, 5, body["size"])
	assert.Contains(t, tr.requests[0].body, `"multi_match"`)
	assert.Contains(t, tr.requests[0].body, `"tags.keyword":"onboarding"`)
}

func TestOpenSearchIndex_SearchAllKinds(t *testing.T) {
	t.Parallel()
	tr := &fakeTransport{body: `{"hits":{"hits":[]}}`}
	idx := search.NewOpenSearchIndex(tr, "ek")

	hits, err := idx.Search(context.Background(), search.Query{})
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, "/ek-*/_search", tr.requests[0].path)
	assert.Contains(t, tr.requests[0].body, `"match_all"`)
}

func TestOpenSearchIndex_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := &fakeTransport{status: http.StatusInternalServerError, body: `{"error":"boom"}`}
	idx := search.NewOpenSearchIndex(tr, "ek")
	assert.ErrorIs(t, idx.Put(ctx, search.Doc{Kind: "k", ID: "1"}), search.ErrRequestFailed)
	_, err := idx.Search(ctx, search.Query{Text: "x"})
	assert.ErrorIs(t, err, search.ErrRequestFailed)

	missing := &fakeTransport{status: http.StatusNotFound, body: `{"result":"not_found"}`}
	idx = search.NewOpenSearchIndex(missing, "ek")
	assert.NoError(t, idx.Delete(ctx, "k", "1"))
	hits, err := idx.Search(ctx, search.Query{Kind: "k"})
	assert.NoError(t, err)
	assert.Empty(t, hits)
}
