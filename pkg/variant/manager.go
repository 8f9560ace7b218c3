package variant

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
	"github.com/dmitrymomot/emailkit/pkg/storage"
	"github.com/dmitrymomot/emailkit/pkg/style"
)

const storageKey = "variants"

// Manager stores component variants.
type Manager struct {
	items   *collection.Collection[ComponentVariant]
	adapter storage.Adapter
	emitter *events.Emitter
	log     *slog.Logger
	now     func() time.Time
}

type Option func(*Manager)

func WithStorage(a storage.Adapter) Option {
	return func(m *Manager) { m.adapter = a }
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

// NewManager creates a manager seeded with BuiltIns.
func NewManager(opts ...Option) *Manager {
	m := &Manager{log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	// built-ins are stored only while they hold a default flag
	copts := []collection.Option[ComponentVariant]{
		collection.WithClone(ComponentVariant.Clone),
		collection.WithPersistFilter(func(v ComponentVariant) bool { return !v.IsBuiltIn || v.IsDefault }),
		collection.WithLogger[ComponentVariant](m.log),
	}
	if m.adapter != nil {
		copts = append(copts, collection.WithAdapter[ComponentVariant](m.adapter))
	}
	m.items = collection.New(storageKey, func(v ComponentVariant) string { return v.ID }, copts...)
	m.items.Seed(BuiltIns()...)
	return m
}

// Create stores a new variant. A variant created with IsDefault takes the
// default slot of its component type and category.
func (m *Manager) Create(ctx context.Context, v ComponentVariant) (ComponentVariant, error) {
	v = v.Clone()
	v.sanitize()
	if err := v.Validate(); err != nil {
		return ComponentVariant{}, err
	}
	if v.ID == "" {
		v.ID = id.New(Kind)
	}
	now := m.now().UTC()
	v.IsBuiltIn = false
	v.CreatedAt, v.UpdatedAt = now, now

	err := m.items.Mutate(ctx, func(items map[string]ComponentVariant) error {
		if _, ok := items[v.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, v.ID)
		}
		items[v.ID] = v
		if v.IsDefault {
			claimDefault(items, v.ID)
		}
		return nil
	})
	if err != nil {
		return ComponentVariant{}, err
	}

	m.emit(ctx, events.ActionCreated, v.ID, v)
	return v.Clone(), nil
}

func (m *Manager) Get(id string) (ComponentVariant, error) {
	v, ok := m.items.Get(id)
	if !ok {
		return ComponentVariant{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v, nil
}

// List returns matching variants ordered by component type, category and name.
func (m *Manager) List(f Filter) []ComponentVariant {
	out := m.items.Filter(f.match)
	slices.SortStableFunc(out, func(a, b ComponentVariant) int {
		return cmp.Or(
			cmp.Compare(a.ComponentType, b.ComponentType),
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return out
}

// ForComponent lists the variants of one component type.
func (m *Manager) ForComponent(componentType string) []ComponentVariant {
	return m.List(Filter{ComponentType: componentType})
}

// UserVariants returns variants that are not built in, ordered by ID.
func (m *Manager) UserVariants() []ComponentVariant {
	return m.items.Filter(func(v ComponentVariant) bool { return !v.IsBuiltIn })
}

func (m *Manager) Update(ctx context.Context, id string, p Patch) (ComponentVariant, error) {
	var updated ComponentVariant
	err := m.items.Mutate(ctx, func(items map[string]ComponentVariant) error {
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
		// a category change moves the default flag into the new slot
		if next.IsDefault && next.Category != cur.Category {
			claimDefault(items, id)
		}
		updated = next.Clone()
		return nil
	})
	if err != nil {
		return ComponentVariant{}, err
	}

	m.emit(ctx, events.ActionUpdated, id, updated)
	return updated, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.items.Mutate(ctx, func(items map[string]ComponentVariant) error {
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
	m.emit(ctx, events.ActionDeleted, id, nil)
	return nil
}

// SetDefault makes id the default of its component type and category.
// Built-in variants may be defaults.
func (m *Manager) SetDefault(ctx context.Context, id string) error {
	err := m.items.Mutate(ctx, func(items map[string]ComponentVariant) error {
		if _, ok := items[id]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		claimDefault(items, id)
		return nil
	})
	if err != nil {
		return err
	}
	m.emitter.Emit(ctx, events.Event{Name: events.VariantDefaultChanged, EntityKind: Kind, EntityID: id})
	return nil
}

// Default returns the default variant for a component type and category.
func (m *Manager) Default(componentType, category string) (ComponentVariant, bool) {
	found := m.items.Filter(func(v ComponentVariant) bool {
		return v.IsDefault && v.ComponentType == componentType && v.Category == category
	})
	if len(found) == 0 {
		return ComponentVariant{}, false
	}
	return found[0], true
}

// Defaults returns every default variant of a component type ordered by category.
func (m *Manager) Defaults(componentType string) []ComponentVariant {
	out := m.items.Filter(func(v ComponentVariant) bool {
		return v.IsDefault && v.ComponentType == componentType
	})
	slices.SortFunc(out, func(a, b ComponentVariant) int { return cmp.Compare(a.Category, b.Category) })
	return out
}

// Apply merges the styles of ids over base in order. All variants must
// target the same component type.
func (m *Manager) Apply(base style.Styles, ids ...string) (style.Styles, error) {
	return m.ApplyFor("", base, ids...)
}

// ApplyFor is Apply with an expected component type. An empty type accepts
// the type of the first variant.
func (m *Manager) ApplyFor(componentType string, base style.Styles, ids ...string) (style.Styles, error) {
	layers := make([]style.Styles, 0, len(ids)+1)
	layers = append(layers, base)
	for _, vid := range ids {
		v, err := m.Get(vid)
		if err != nil {
			return nil, err
		}
		if componentType == "" {
			componentType = v.ComponentType
		}
		if v.ComponentType != componentType {
			return nil, fmt.Errorf("%w: %s is for %s, not %s", ErrComponentMismatch, v.ID, v.ComponentType, componentType)
		}
		layers = append(layers, v.Styles)
	}
	return style.Merge(layers...), nil
}

// Export encodes user variants, plus built-ins currently marked default.
func (m *Manager) Export() ([]byte, error) {
	return m.items.Marshal()
}

func (m *Manager) Import(ctx context.Context, data []byte, overwrite bool) (int, error) {
	var incoming []ComponentVariant
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, errors.Join(ErrInvalidData, err)
	}
	return m.ImportVariants(ctx, incoming, overwrite)
}

// ImportVariants stores decoded variants atomically. Built-in entries only
// contribute their default flag.
func (m *Manager) ImportVariants(ctx context.Context, incoming []ComponentVariant, overwrite bool) (int, error) {
	now := m.now().UTC()
	n := 0
	err := m.items.Mutate(ctx, func(items map[string]ComponentVariant) error {
		for _, v := range incoming {
			v = v.Clone()
			v.sanitize()
			if v.ID == "" {
				v.ID = id.New(Kind)
			}
			existing, ok := items[v.ID]
			if ok && existing.IsBuiltIn {
				if v.IsDefault && overwrite {
					claimDefault(items, v.ID)
				}
				continue
			}
			if ok && !overwrite {
				continue
			}
			if err := v.Validate(); err != nil {
				return fmt.Errorf("variant %s: %w", v.ID, err)
			}
			v.IsBuiltIn = false
			if v.CreatedAt.IsZero() {
				v.CreatedAt = now
			}
			v.UpdatedAt = now
			items[v.ID] = v
			if v.IsDefault {
				claimDefault(items, v.ID)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	m.emit(ctx, events.ActionImported, "", n)
	return n, nil
}

// Load reads stored variants. Once anything has been stored, the stored
// entries decide which built-ins are defaults.
func (m *Manager) Load(ctx context.Context) (int, error) {
	cleared := BuiltIns()
	for i := range cleared {
		cleared[i].IsDefault = false
	}
	m.items.Seed(cleared...)

	n, err := m.items.Load(ctx)
	if err != nil || n == 0 {
		m.items.Seed(BuiltIns()...)
		return 0, err
	}

	builtIns := BuiltIns()
	for i := range builtIns {
		cur, _ := m.items.Get(builtIns[i].ID)
		builtIns[i].IsDefault = cur.IsDefault
	}
	m.items.Seed(builtIns...)
	return n, nil
}

func (m *Manager) emit(ctx context.Context, action, id string, payload any) {
	m.emitter.Emit(ctx, events.New(Kind, action, id, payload))
}

// claimDefault sets id as default and clears the flag on its competitors.
func claimDefault(items map[string]ComponentVariant, id string) {
	target := items[id]
	key := groupKey(target)
	for vid, v := range items {
		if vid != id && v.IsDefault && groupKey(v) == key {
			v.IsDefault = false
			items[vid] = v
		}
	}
	target.IsDefault = true
	items[id] = target
}
