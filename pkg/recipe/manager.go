package recipe

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/collection"
	"github.com/dmitrymomot/emailkit/pkg/events"
	"github.com/dmitrymomot/emailkit/pkg/id"
	"github.com/dmitrymomot/emailkit/pkg/logger"
	"github.com/dmitrymomot/emailkit/pkg/search"
	"github.com/dmitrymomot/emailkit/pkg/storage"
	"github.com/dmitrymomot/emailkit/pkg/style"
)

const storageKey = "recipes"

// Manager stores style recipes and keeps them searchable.
type Manager struct {
	items   *collection.Collection[StyleRecipe]
	adapter storage.Adapter
	index   search.Index
	emitter *events.Emitter
	log     *slog.Logger
	now     func() time.Time
}

type Option func(*Manager)

func WithStorage(a storage.Adapter) Option {
	return func(m *Manager) { m.adapter = a }
}

// WithIndex sets the search index. Without it the manager keeps a private
// in-memory index.
func WithIndex(idx search.Index) Option {
	return func(m *Manager) { m.index = idx }
}

func WithEmitter(e *events.Emitter) Option {
	return func(m *Manager) { m.emitter = e }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	copts := []collection.Option[StyleRecipe]{
		collection.WithClone(StyleRecipe.Clone),
		collection.WithPersistFilter(func(r StyleRecipe) bool { return !r.IsBuiltIn }),
		collection.WithLogger[StyleRecipe](m.log),
	}
	if m.adapter != nil {
		copts = append(copts, collection.WithAdapter[StyleRecipe](m.adapter))
	}
	m.items = collection.New(storageKey, func(r StyleRecipe) string { return r.ID }, copts...)
	m.items.Seed(BuiltIns()...)

	// external indexes are filled by Load or Reindex
	if m.index == nil {
		m.index = search.NewMemoryIndex()
		_ = m.Reindex(context.Background())
	}
	return m
}

func (m *Manager) Create(ctx context.Context, r StyleRecipe) (StyleRecipe, error) {
	r = r.Clone()
	r.sanitize()
	if err := r.Validate(); err != nil {
		return StyleRecipe{}, err
	}
	if r.ID == "" {
		r.ID = id.New(Kind)
	}
	now := m.now().UTC()
	r.IsBuiltIn = false
	r.CreatedAt, r.UpdatedAt = now, now

	err := m.items.Mutate(ctx, func(items map[string]StyleRecipe) error {
		if _, ok := items[r.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, r.ID)
		}
		items[r.ID] = r
		return checkExtends(items, r.ID)
	})
	if err != nil {
		return StyleRecipe{}, err
	}

	m.indexRecipe(ctx, r)
	m.emit(ctx, events.ActionCreated, r.ID, r)
	return r.Clone(), nil
}

func (m *Manager) Get(id string) (StyleRecipe, error) {
	r, ok := m.items.Get(id)
	if !ok {
		return StyleRecipe{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

// List returns every recipe ordered by category and name.
func (m *Manager) List() []StyleRecipe {
	all := m.items.All()
	slices.SortStableFunc(all, func(a, b StyleRecipe) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Name, b.Name))
	})
	return all
}

func (m *Manager) UserRecipes() []StyleRecipe {
	return m.items.Filter(func(r StyleRecipe) bool { return !r.IsBuiltIn })
}

func (m *Manager) Update(ctx context.Context, id string, p Patch) (StyleRecipe, error) {
	var updated StyleRecipe
	err := m.items.Mutate(ctx, func(items map[string]StyleRecipe) error {
		cur, ok := items[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if cur.IsBuiltIn {
			return ErrBuiltIn
		}
		next := p.apply(cur.Clone())
		next.sanitize()
		if err := next.Validate(); err != nil {
			return err
		}
		next.UpdatedAt = m.now().UTC()
		items[id] = next
		if err := checkExtends(items, id); err != nil {
			return err
		}
		updated = next.Clone()
		return nil
	})
	if err != nil {
		return StyleRecipe{}, err
	}

	m.indexRecipe(ctx, updated)
	m.emit(ctx, events.ActionUpdated, id, updated)
	return updated, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.items.Mutate(ctx, func(items map[string]StyleRecipe) error {
		cur, ok := items[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if cur.IsBuiltIn {
			return ErrBuiltIn
		}
		for _, other := range items {
			if slices.Contains(other.Extends, id) {
				return fmt.Errorf("%w: %s extends %s", ErrRecipeInUse, other.ID, id)
			}
		}
		delete(items, id)
		return nil
	})
	if err != nil {
		return err
	}

	if err := m.index.Delete(ctx, Kind, id); err != nil {
		m.log.WarnContext(ctx, "failed to remove recipe from index",
			logger.EntityID(id),
			logger.Error(err),
		)
	}
	m.emit(ctx, events.ActionDeleted, id, nil)
	return nil
}

// Search returns recipes matching query and carrying every tag, best match first.
func (m *Manager) Search(ctx context.Context, query string, tags ...string) ([]StyleRecipe, error) {
	hits, err := m.index.Search(ctx, search.Query{Kind: Kind, Text: query, Tags: tags})
	if err != nil {
		return nil, err
	}
	out := make([]StyleRecipe, 0, len(hits))
	for _, rid := range search.IDs(hits) {
		// the index may lag behind deletes
		if r, ok := m.items.Get(rid); ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Flatten returns the recipes applied for ids, parents first, each once.
func (m *Manager) Flatten(ids ...string) ([]StyleRecipe, error) {
	var (
		out     []StyleRecipe
		applied = make(map[string]bool)
	)
	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		if slices.Contains(path, id) {
			return fmt.Errorf("%w: %v", ErrRecipeCycle, append(path, id))
		}
		r, ok := m.items.Get(id)
		if !ok {
			if len(path) > 0 {
				return fmt.Errorf("%w: %s", ErrParentNotFound, id)
			}
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		path = append(path, id)
		for _, parent := range r.Extends {
			if err := visit(parent, path); err != nil {
				return err
			}
		}
		if !applied[id] {
			applied[id] = true
			out = append(out, r)
		}
		return nil
	}

	for _, rid := range ids {
		if err := visit(rid, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Compose merges the flattened recipes for ids into one style map.
func (m *Manager) Compose(ids ...string) (style.Styles, error) {
	return m.Apply(nil, ids...)
}

// Apply merges the composed recipes over base.
func (m *Manager) Apply(base style.Styles, ids ...string) (style.Styles, error) {
	recipes, err := m.Flatten(ids...)
	if err != nil {
		return nil, err
	}
	layers := make([]style.Styles, 0, len(recipes)+1)
	layers = append(layers, base)
	for _, r := range recipes {
		layers = append(layers, r.Styles)
	}
	return style.Merge(layers...), nil
}

func (m *Manager) Export() ([]byte, error) {
	return m.items.Marshal()
}

func (m *Manager) Import(ctx context.Context, data []byte, overwrite bool) (int, error) {
	var incoming []StyleRecipe
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, errors.Join(ErrInvalidData, err)
	}
	return m.ImportRecipes(ctx, incoming, overwrite)
}

// ImportRecipes stores decoded recipes atomically and re-indexes them.
func (m *Manager) ImportRecipes(ctx context.Context, incoming []StyleRecipe, overwrite bool) (int, error) {
	now := m.now().UTC()
	var stored []StyleRecipe
	err := m.items.Mutate(ctx, func(items map[string]StyleRecipe) error {
		for _, r := range incoming {
			r = r.Clone()
			r.sanitize()
			if r.ID == "" {
				r.ID = id.New(Kind)
			}
			if existing, ok := items[r.ID]; ok && (existing.IsBuiltIn || !overwrite) {
				continue
			}
			if err := r.Validate(); err != nil {
				return fmt.Errorf("recipe %s: %w", r.ID, err)
			}
			r.IsBuiltIn = false
			if r.CreatedAt.IsZero() {
				r.CreatedAt = now
			}
			r.UpdatedAt = now
			items[r.ID] = r
			stored = append(stored, r)
		}
		for _, r := range stored {
			if err := checkExtends(items, r.ID); err != nil {
				return fmt.Errorf("recipe %s: %w", r.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, r := range stored {
		m.indexRecipe(ctx, r)
	}
	m.emit(ctx, events.ActionImported, "", len(stored))
	return len(stored), nil
}

// Load reads stored recipes and rebuilds the index.
func (m *Manager) Load(ctx context.Context) (int, error) {
	n, err := m.items.Load(ctx)
	if err != nil {
		return 0, err
	}
	m.items.Seed(BuiltIns()...)
	if err := m.Reindex(ctx); err != nil {
		m.log.WarnContext(ctx, "failed to index recipes", logger.Error(err))
	}
	return n, nil
}

// Reindex puts every recipe into the index and returns the first failure.
func (m *Manager) Reindex(ctx context.Context) error {
	var errs []error
	for _, r := range m.items.All() {
		if err := m.index.Put(ctx, r.doc()); err != nil {
			errs = append(errs, fmt.Errorf("recipe %s: %w", r.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) indexRecipe(ctx context.Context, r StyleRecipe) {
	if err := m.index.Put(ctx, r.doc()); err != nil {
		m.log.WarnContext(ctx, "failed to index recipe",
			logger.EntityID(r.ID),
			logger.Error(err),
		)
	}
}

func (m *Manager) emit(ctx context.Context, action, id string, payload any) {
	m.emitter.Emit(ctx, events.New(Kind, action, id, payload))
}

// checkExtends verifies that the recipe stored under id reaches only
// existing recipes and never itself.
func checkExtends(items map[string]StyleRecipe, id string) error {
	var walk func(cur string, path []string) error
	walk = func(cur string, path []string) error {
		if slices.Contains(path, cur) {
			return fmt.Errorf("%w: %v", ErrRecipeCycle, append(path, cur))
		}
		r, ok := items[cur]
		if !ok {
			return fmt.Errorf("%w: %s", ErrParentNotFound, cur)
		}
		path = append(path, cur)
		for _, parent := range r.Extends {
			if err := walk(parent, path); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(id, nil)
}
