package preset

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

const storageKey = "presets"

// Manager stores component presets.
type Manager struct {
	items   *collection.Collection[ComponentPreset]
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

	// built-ins are stored only while they hold the default flag
	copts := []collection.Option[ComponentPreset]{
		collection.WithClone(ComponentPreset.Clone),
		collection.WithPersistFilter(func(p ComponentPreset) bool { return !p.IsBuiltIn || p.IsDefault }),
		collection.WithLogger[ComponentPreset](m.log),
	}
	if m.adapter != nil {
		copts = append(copts, collection.WithAdapter[ComponentPreset](m.adapter))
	}
	m.items = collection.New(storageKey, func(p ComponentPreset) string { return p.ID }, copts...)
	m.items.Seed(BuiltIns()...)

	if m.index == nil {
		m.index = search.NewMemoryIndex()
		_ = m.Reindex(context.Background())
	}
	return m
}

func (m *Manager) Create(ctx context.Context, p ComponentPreset) (ComponentPreset, error) {
	p = p.Clone()
	p.sanitize()
	if err := p.Validate(); err != nil {
		return ComponentPreset{}, m.fail("create", p.ID, err)
	}
	if p.ID == "" {
		p.ID = id.New(Kind)
	}
	now := m.now().UTC()
	p.IsBuiltIn = false
	p.CreatedAt, p.UpdatedAt = now, now

	err := m.items.Mutate(ctx, func(items map[string]ComponentPreset) error {
		if _, ok := items[p.ID]; ok {
			return ErrDuplicate
		}
		items[p.ID] = p
		if p.IsDefault {
			claimDefault(items, p.ID)
		}
		return nil
	})
	if err != nil {
		return ComponentPreset{}, m.fail("create", p.ID, err)
	}

	m.indexPreset(ctx, p)
	m.emit(ctx, events.ActionCreated, p.ID, p)
	return p.Clone(), nil
}

func (m *Manager) Get(id string) (ComponentPreset, error) {
	p, ok := m.items.Get(id)
	if !ok {
		return ComponentPreset{}, m.fail("get", id, ErrNotFound)
	}
	return p, nil
}

// List returns every preset ordered by component type and name.
func (m *Manager) List() []ComponentPreset {
	all := m.items.All()
	slices.SortStableFunc(all, byTypeAndName)
	return all
}

// ByComponentType returns the presets of one component type by name.
func (m *Manager) ByComponentType(componentType string) []ComponentPreset {
	out := m.items.Filter(func(p ComponentPreset) bool { return p.ComponentType == componentType })
	slices.SortStableFunc(out, byTypeAndName)
	return out
}

func (m *Manager) UserPresets() []ComponentPreset {
	return m.items.Filter(func(p ComponentPreset) bool { return !p.IsBuiltIn })
}

func (m *Manager) Update(ctx context.Context, id string, pt Patch) (ComponentPreset, error) {
	updated, err := m.items.Update(ctx, id, func(cur ComponentPreset) (ComponentPreset, error) {
		if cur.IsBuiltIn {
			return cur, ErrBuiltIn
		}
		next := pt.apply(cur)
		next.sanitize()
		if err := next.Validate(); err != nil {
			return cur, err
		}
		next.UpdatedAt = m.now().UTC()
		return next, nil
	})
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			err = ErrNotFound
		}
		return ComponentPreset{}, m.fail("update", id, err)
	}

	m.indexPreset(ctx, updated)
	m.emit(ctx, events.ActionUpdated, id, updated)
	return updated, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.items.Mutate(ctx, func(items map[string]ComponentPreset) error {
		cur, ok := items[id]
		if !ok {
			return ErrNotFound
		}
		if cur.IsBuiltIn {
			return ErrBuiltIn
		}
		delete(items, id)
		return nil
	})
	if err != nil {
		return m.fail("delete", id, err)
	}

	if err := m.index.Delete(ctx, Kind, id); err != nil {
		m.log.WarnContext(ctx, "failed to remove preset from index",
			logger.EntityID(id),
			logger.Error(err),
		)
	}
	m.emit(ctx, events.ActionDeleted, id, nil)
	return nil
}

// SetDefault makes id the default preset of its component type.
func (m *Manager) SetDefault(ctx context.Context, id string) error {
	err := m.items.Mutate(ctx, func(items map[string]ComponentPreset) error {
		if _, ok := items[id]; !ok {
			return ErrNotFound
		}
		claimDefault(items, id)
		return nil
	})
	if err != nil {
		return m.fail("set_default", id, err)
	}
	m.emitter.Emit(ctx, events.Event{Name: events.PresetDefaultChanged, EntityKind: Kind, EntityID: id})
	return nil
}

// Default returns the default preset of a component type.
func (m *Manager) Default(componentType string) (ComponentPreset, bool) {
	found := m.items.Filter(func(p ComponentPreset) bool {
		return p.IsDefault && p.ComponentType == componentType
	})
	if len(found) == 0 {
		return ComponentPreset{}, false
	}
	return found[0], true
}

// Duplicate copies a preset under a new ID. The copy is never default.
func (m *Manager) Duplicate(ctx context.Context, id, name string) (ComponentPreset, error) {
	src, err := m.Get(id)
	if err != nil {
		return ComponentPreset{}, err
	}
	if name == "" {
		name = src.Name + " (copy)"
	}
	src.ID = ""
	src.Name = name
	src.IsDefault = false
	return m.Create(ctx, src)
}

// Apply merges the preset's styles over base.
func (m *Manager) Apply(id string, base style.Styles) (style.Styles, error) {
	p, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return style.Merge(base, p.Styles), nil
}

func (m *Manager) Search(ctx context.Context, query string, tags ...string) ([]ComponentPreset, error) {
	hits, err := m.index.Search(ctx, search.Query{Kind: Kind, Text: query, Tags: tags})
	if err != nil {
		return nil, m.fail("search", "", err)
	}
	out := make([]ComponentPreset, 0, len(hits))
	for _, pid := range search.IDs(hits) {
		if p, ok := m.items.Get(pid); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Manager) Export() ([]byte, error) {
	data, err := m.items.Marshal()
	if err != nil {
		return nil, m.fail("export", "", err)
	}
	return data, nil
}

// Import decodes a JSON array of presets. A parse failure is a
// *PresetManagerError wrapping ErrInvalidData.
func (m *Manager) Import(ctx context.Context, data []byte, overwrite bool) (int, error) {
	var incoming []ComponentPreset
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, m.fail("import", "", errors.Join(ErrInvalidData, err))
	}
	return m.ImportPresets(ctx, incoming, overwrite)
}

// ImportPresets stores decoded presets atomically. Built-in entries only
// contribute their default flag.
func (m *Manager) ImportPresets(ctx context.Context, incoming []ComponentPreset, overwrite bool) (int, error) {
	now := m.now().UTC()
	var stored []ComponentPreset
	err := m.items.Mutate(ctx, func(items map[string]ComponentPreset) error {
		for _, p := range incoming {
			p = p.Clone()
			p.sanitize()
			if p.ID == "" {
				p.ID = id.New(Kind)
			}
			existing, ok := items[p.ID]
			if ok && existing.IsBuiltIn {
				if p.IsDefault && overwrite {
					claimDefault(items, p.ID)
				}
				continue
			}
			if ok && !overwrite {
				continue
			}
			if err := p.Validate(); err != nil {
				return fmt.Errorf("preset %s: %w", p.ID, err)
			}
			p.IsBuiltIn = false
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			p.UpdatedAt = now
			items[p.ID] = p
			if p.IsDefault {
				claimDefault(items, p.ID)
			}
			stored = append(stored, p)
		}
		return nil
	})
	if err != nil {
		return 0, m.fail("import", "", err)
	}

	for _, p := range stored {
		m.indexPreset(ctx, p)
	}
	m.emit(ctx, events.ActionImported, "", len(stored))
	return len(stored), nil
}

// Load reads stored presets and rebuilds the index. Once anything has been
// stored, the stored entries decide which built-ins are defaults.
func (m *Manager) Load(ctx context.Context) (int, error) {
	cleared := BuiltIns()
	for i := range cleared {
		cleared[i].IsDefault = false
	}
	m.items.Seed(cleared...)

	n, err := m.items.Load(ctx)
	if err != nil || n == 0 {
		m.items.Seed(BuiltIns()...)
		if err != nil {
			return 0, m.fail("load", "", err)
		}
	} else {
		builtIns := BuiltIns()
		for i := range builtIns {
			cur, _ := m.items.Get(builtIns[i].ID)
			builtIns[i].IsDefault = cur.IsDefault
		}
		m.items.Seed(builtIns...)
	}

	if err := m.Reindex(ctx); err != nil {
		m.log.WarnContext(ctx, "failed to index presets", logger.Error(err))
	}
	return n, nil
}

func (m *Manager) Reindex(ctx context.Context) error {
	var errs []error
	for _, p := range m.items.All() {
		if err := m.index.Put(ctx, p.doc()); err != nil {
			errs = append(errs, fmt.Errorf("preset %s: %w", p.ID, err))
		}
	}
	return errors.Join(errs...)
}

// fail wraps err in the error type matching its origin.
func (m *Manager) fail(op, id string, err error) error {
	if errors.Is(err, collection.ErrPersist) || errors.Is(err, collection.ErrLoad) {
		return &PresetStorageError{Op: op, Key: m.items.Key(), Err: err}
	}
	return &PresetManagerError{Op: op, PresetID: id, Err: err}
}

func (m *Manager) indexPreset(ctx context.Context, p ComponentPreset) {
	if err := m.index.Put(ctx, p.doc()); err != nil {
		m.log.WarnContext(ctx, "failed to index preset",
			logger.EntityID(p.ID),
			logger.Error(err),
		)
	}
}

func (m *Manager) emit(ctx context.Context, action, id string, payload any) {
	m.emitter.Emit(ctx, events.New(Kind, action, id, payload))
}

// claimDefault sets id as the default of its component type.
func claimDefault(items map[string]ComponentPreset, id string) {
	target := items[id]
	for pid, p := range items {
		if pid != id && p.IsDefault && p.ComponentType == target.ComponentType {
			p.IsDefault = false
			items[pid] = p
		}
	}
	target.IsDefault = true
	items[id] = target
}

func byTypeAndName(a, b ComponentPreset) int {
	return cmp.Or(cmp.Compare(a.ComponentType, b.ComponentType), cmp.Compare(a.Name, b.Name))
}
