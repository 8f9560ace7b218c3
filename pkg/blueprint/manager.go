package blueprint

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
)

const storageKey = "blueprints"

// Manager stores blueprints and keeps them searchable.
type Manager struct {
	items   *collection.Collection[TemplateBlueprint]
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

// WithIndex sets a shared search index. Without it the manager keeps a
// private in-memory index.
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

	copts := []collection.Option[TemplateBlueprint]{
		collection.WithClone(TemplateBlueprint.Clone),
		collection.WithPersistFilter(func(b TemplateBlueprint) bool { return !b.IsBuiltIn }),
		collection.WithLogger[TemplateBlueprint](m.log),
	}
	if m.adapter != nil {
		copts = append(copts, collection.WithAdapter[TemplateBlueprint](m.adapter))
	}
	m.items = collection.New(storageKey, func(b TemplateBlueprint) string { return b.ID }, copts...)
	m.items.Seed(BuiltIns()...)

	if m.index == nil {
		m.index = search.NewMemoryIndex()
		_ = m.Reindex(context.Background())
	}
	return m
}

// Create stores a new blueprint. Placeholders without a slot declaration
// become text slots.
func (m *Manager) Create(ctx context.Context, b TemplateBlueprint) (TemplateBlueprint, error) {
	b = b.Clone()
	b.sanitize()
	if err := b.Validate(); err != nil {
		return TemplateBlueprint{}, err
	}
	if b.ID == "" {
		b.ID = id.New(Kind)
	}
	now := m.now().UTC()
	b.IsBuiltIn = false
	b.CreatedAt, b.UpdatedAt = now, now

	err := m.items.Mutate(ctx, func(items map[string]TemplateBlueprint) error {
		if _, ok := items[b.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, b.ID)
		}
		items[b.ID] = b
		return nil
	})
	if err != nil {
		return TemplateBlueprint{}, err
	}

	m.indexBlueprint(ctx, b)
	m.emit(ctx, events.ActionCreated, b.ID, b)
	return b.Clone(), nil
}

func (m *Manager) Get(id string) (TemplateBlueprint, error) {
	b, ok := m.items.Get(id)
	if !ok {
		return TemplateBlueprint{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, nil
}

// List returns every blueprint ordered by category and name.
func (m *Manager) List() []TemplateBlueprint {
	all := m.items.All()
	slices.SortStableFunc(all, func(a, b TemplateBlueprint) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Name, b.Name))
	})
	return all
}

func (m *Manager) UserBlueprints() []TemplateBlueprint {
	return m.items.Filter(func(b TemplateBlueprint) bool { return !b.IsBuiltIn })
}

func (m *Manager) Update(ctx context.Context, id string, p Patch) (TemplateBlueprint, error) {
	updated, err := m.items.Update(ctx, id, func(cur TemplateBlueprint) (TemplateBlueprint, error) {
		if cur.IsBuiltIn {
			return cur, ErrBuiltIn
		}
		next := p.apply(cur)
		next.sanitize()
		if err := next.Validate(); err != nil {
			return cur, err
		}
		next.UpdatedAt = m.now().UTC()
		return next, nil
	})
	if errors.Is(err, collection.ErrNotFound) {
		return TemplateBlueprint{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return TemplateBlueprint{}, err
	}

	m.indexBlueprint(ctx, updated)
	m.emit(ctx, events.ActionUpdated, id, updated)
	return updated, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.items.Mutate(ctx, func(items map[string]TemplateBlueprint) error {
		cur, ok := items[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if cur.IsBuiltIn {
			return ErrBuiltIn
		}
		delete(items, id)
		return nil
	})
	if err != nil {
		return err
	}

	if err := m.index.Delete(ctx, Kind, id); err != nil {
		m.log.WarnContext(ctx, "failed to remove blueprint from index",
			logger.EntityID(id),
			logger.Error(err),
		)
	}
	m.emit(ctx, events.ActionDeleted, id, nil)
	return nil
}

// Render fills the blueprint with values. See the package-level Render.
func (m *Manager) Render(id string, values map[string]string) (string, error) {
	b, err := m.Get(id)
	if err != nil {
		return "", err
	}
	return Render(b, values)
}

// Validate returns the non-fatal issues of a stored blueprint.
func (m *Manager) Validate(id string) ([]string, error) {
	b, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return b.Issues(), nil
}

// Search returns blueprints matching query and carrying every tag.
func (m *Manager) Search(ctx context.Context, query string, tags ...string) ([]TemplateBlueprint, error) {
	hits, err := m.index.Search(ctx, search.Query{Kind: Kind, Text: query, Tags: tags})
	if err != nil {
		return nil, err
	}
	out := make([]TemplateBlueprint, 0, len(hits))
	for _, bid := range search.IDs(hits) {
		if b, ok := m.items.Get(bid); ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *Manager) Export() ([]byte, error) {
	return m.items.Marshal()
}

func (m *Manager) Import(ctx context.Context, data []byte, overwrite bool) (int, error) {
	var incoming []TemplateBlueprint
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, errors.Join(ErrInvalidData, err)
	}
	return m.ImportBlueprints(ctx, incoming, overwrite)
}

// ImportBlueprints stores decoded blueprints atomically.
func (m *Manager) ImportBlueprints(ctx context.Context, incoming []TemplateBlueprint, overwrite bool) (int, error) {
	now := m.now().UTC()
	var stored []TemplateBlueprint
	err := m.items.Mutate(ctx, func(items map[string]TemplateBlueprint) error {
		for _, b := range incoming {
			b = b.Clone()
			b.sanitize()
			if b.ID == "" {
				b.ID = id.New(Kind)
			}
			if existing, ok := items[b.ID]; ok && (existing.IsBuiltIn || !overwrite) {
				continue
			}
			if err := b.Validate(); err != nil {
				return fmt.Errorf("blueprint %s: %w", b.ID, err)
			}
			b.IsBuiltIn = false
			if b.CreatedAt.IsZero() {
				b.CreatedAt = now
			}
			b.UpdatedAt = now
			items[b.ID] = b
			stored = append(stored, b)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, b := range stored {
		m.indexBlueprint(ctx, b)
	}
	m.emit(ctx, events.ActionImported, "", len(stored))
	return len(stored), nil
}

// Load reads stored blueprints and rebuilds the index.
func (m *Manager) Load(ctx context.Context) (int, error) {
	n, err := m.items.Load(ctx)
	if err != nil {
		return 0, err
	}
	m.items.Seed(BuiltIns()...)
	if err := m.Reindex(ctx); err != nil {
		m.log.WarnContext(ctx, "failed to index blueprints", logger.Error(err))
	}
	return n, nil
}

func (m *Manager) Reindex(ctx context.Context) error {
	var errs []error
	for _, b := range m.items.All() {
		if err := m.index.Put(ctx, b.doc()); err != nil {
			errs = append(errs, fmt.Errorf("blueprint %s: %w", b.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) indexBlueprint(ctx context.Context, b TemplateBlueprint) {
	if err := m.index.Put(ctx, b.doc()); err != nil {
		m.log.WarnContext(ctx, "failed to index blueprint",
			logger.EntityID(b.ID),
			logger.Error(err),
		)
	}
}

func (m *Manager) emit(ctx context.Context, action, id string, payload any) {
	m.emitter.Emit(ctx, events.New(Kind, action, id, payload))
}
