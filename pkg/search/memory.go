package search

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// MemoryIndex matches query tokens as prefixes of document tokens. All
// query tokens must match. Name matches weigh 3, tags 2, category and
// description 1.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs map[string]Doc
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{docs: make(map[string]Doc)}
}

func docKey(kind, id string) string { return kind + "\x00" + id }

func (m *MemoryIndex) Put(_ context.Context, doc Doc) error {
	if doc.Kind == "" || doc.ID == "" {
		return ErrInvalidDoc
	}
	doc.Tags = slices.Clone(doc.Tags)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[docKey(doc.Kind, doc.ID)] = doc
	return nil
}

func (m *MemoryIndex) Delete(_ context.Context, kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, docKey(kind, id))
	return nil
}

// Len returns the number of indexed documents.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *MemoryIndex) Search(_ context.Context, q Query) ([]Hit, error) {
	terms := tokenize(q.Text)
	wantTags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			wantTags = append(wantTags, t)
		}
	}

	m.mu.RLock()
	var hits []Hit
	for _, d := range m.docs {
		if q.Kind != "" && d.Kind != q.Kind {
			continue
		}
		if !hasAllTags(d.Tags, wantTags) {
			continue
		}
		score, ok := scoreDoc(d, terms)
		if !ok {
			continue
		}
		hits = append(hits, Hit{Kind: d.Kind, ID: d.ID, Score: score})
	}
	m.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func scoreDoc(d Doc, terms []string) (float64, bool) {
	if len(terms) == 0 {
		return 1, true
	}
	fields := []struct {
		tokens []string
		weight float64
	}{
		{tokenize(d.Name), 3},
		{tokenize(strings.Join(d.Tags, " ")), 2},
		{tokenize(d.Category), 1},
		{tokenize(d.Description), 1},
	}

	var total float64
	for _, term := range terms {
		var best float64
		for _, f := range fields {
			if f.weight > best && matchesAny(f.tokens, term) {
				best = f.weight
			}
		}
		if best == 0 {
			return 0, false
		}
		total += best
	}
	return total, true
}

func matchesAny(tokens []string, term string) bool {
	for _, t := range tokens {
		if strings.HasPrefix(t, term) {
			return true
		}
	}
	return false
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
