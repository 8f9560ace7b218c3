package theme

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/collection"
	"github.com/dmitrymomot/emailkit/pkg/events"
	"github.com/dmitrymomot/emailkit/pkg/id"
	"github.com/dmitrymomot/emailkit/pkg/logger"
	"github.com/dmitrymomot/emailkit/pkg/storage"
	"github.com/dmitrymomot/emailkit/pkg/style"
)

const (
	storageKey = "themes"
	activeKey  = "themes:active"

	// maxChainDepth bounds inheritance walks.
	maxChainDepth = 32
)

// Manager stores themes and tracks the active one.
type Manager struct {
	items   *collection.Collection[Theme]
	adapter storage.Adapter
	emitter *events.Emitter
	log     *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	active string
}

// Option configures a Manager.
type Option func(*Manager)

// WithStorage persists user themes and the active theme ID through a.
func WithStorage(a storage.Adapter) Option {
	return func(m *Manager) { m.adapter = a }
}

// WithEmitter sets the emitter notified on every change.
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

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager holding the built-in theme.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		log:    slog.Default(),
		now:    time.Now,
		active: DefaultID,
	}
	for _, opt := range opts {
		opt(m)
	}

	copts := []collection.Option[Theme]{
		collection.WithClone(Theme.Clone),
		collection.WithPersistFilter(func(t Theme) bool { return !t.IsBuiltIn }),
		collection.WithLogger[Theme](m.log),
	}
	if m.adapter != nil {
		copts = append(copts, collection.WithAdapter[Theme](m.adapter))
	}
	m.items = collection.New(storageKey, func(t Theme) string { return t.ID }, copts...)
	m.items.Seed(Default())
	return m
}

// Create stores a new theme. An empty ID is generated.
func (m *Manager) Create(ctx context.Context, t Theme) (Theme, error) {
	t = t.Clone()
	t.sanitize()
	if err := t.Validate(); err != nil {
		return Theme{}, err
	}
	if t.ID == "" {
		t.ID = id.New(Kind)
	}
	now := m.now().UTC()
	t.IsBuiltIn = false
	t.CreatedAt, t.UpdatedAt = now, now

	err := m.items.Mutate(ctx, func(items map[string]Theme) error {
		if _, ok := items[t.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, t.ID)
		}
		if err := checkChain(items, t); err != nil {
			return err
		}
		items[t.ID] = t
		return nil
	})
	if err != nil {
		return Theme{}, err
	}

	m.emit(ctx, events.ActionCreated, t.ID, t)
	return t.Clone(), nil
}

// Get returns the theme with id as stored, without inheritance applied.
func (m *Manager) Get(id string) (Theme, error) {
	t, ok := m.items.Get(id)
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, nil
}

// List returns built-in themes first, then user themes by name.
func (m *Manager) List() []Theme {
	all := m.items.All()
	slices.SortStableFunc(all, func(a, b Theme) int {
		if a.IsBuiltIn != b.IsBuiltIn {
			if a.IsBuiltIn {
				return -1
			}
			return 1
		}
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return all
}

// UserThemes returns the themes that are persisted, ordered by ID.
func (m *Manager) UserThemes() []Theme {
	return m.items.Filter(func(t Theme) bool { return !t.IsBuiltIn })
}

// Update applies p to the theme with id.
func (m *Manager) Update(ctx context.Context, id string, p Patch) (Theme, error) {
	var updated Theme
	err := m.items.Mutate(ctx, func(items map[string]Theme) error {
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
		if err := checkChain(items, next); err != nil {
			return err
		}
		next.UpdatedAt = m.now().UTC()
		items[id] = next
		updated = next.Clone()
		return nil
	})
	if err != nil {
		return Theme{}, err
	}

	m.emit(ctx, events.ActionUpdated, id, updated)
	return updated, nil
}

// Delete removes a user theme. Themes extended by others cannot be removed.
// Deleting the active theme re-activates the default one.
func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.items.Mutate(ctx, func(items map[string]Theme) error {
		cur, ok := items[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if cur.IsBuiltIn {
			return ErrBuiltIn
		}
		for _, other := range items {
			if other.Extends == id {
				return fmt.Errorf("%w: %s extends %s", ErrThemeInUse, other.ID, id)
			}
		}
		delete(items, id)
		return nil
	})
	if err != nil {
		return err
	}

	m.emit(ctx, events.ActionDeleted, id, nil)
	if m.ActiveID() == id {
		m.setActive(ctx, DefaultID)
	}
	return nil
}

// Duplicate copies a theme under a new ID. The copy is a sibling of the
// source: it keeps the same parent, tokens and component styles. An empty
// name appends " (copy)".
func (m *Manager) Duplicate(ctx context.Context, id, name string) (Theme, error) {
	src, err := m.Get(id)
	if err != nil {
		return Theme{}, err
	}
	if name == "" {
		name = src.Name + " (copy)"
	}
	src.ID = ""
	src.Name = name
	return m.Create(ctx, src)
}

// Resolve returns the theme with its inheritance chain merged root-first.
func (m *Manager) Resolve(id string) (Theme, error) {
	chain, err := m.chain(id)
	if err != nil {
		return Theme{}, err
	}

	tokens := make([]style.Tokens, 0, len(chain))
	components := make([]map[string]style.Styles, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		tokens = append(tokens, chain[i].Tokens)
		components = append(components, chain[i].Components)
	}

	out := chain[0]
	out.Tokens = style.MergeTokens(tokens...)
	out.Components = style.MergeDeep(components...)
	return out, nil
}

// ResolveToken returns the value of a "group.name" token of the resolved
// theme with nested references substituted.
func (m *Manager) ResolveToken(id, path string) (string, error) {
	t, err := m.Resolve(id)
	if err != nil {
		return "", err
	}
	raw, ok := t.Tokens.Lookup(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTokenNotFound, path)
	}
	v, _ := style.ResolveValue(raw, t.Tokens)
	return v, nil
}

// ComponentStyles returns the resolved theme's base styles for a component
// type with tokens substituted. Unknown types yield empty styles.
func (m *Manager) ComponentStyles(id, componentType string) (style.Styles, error) {
	t, err := m.Resolve(id)
	if err != nil {
		return nil, err
	}
	resolved, unresolved := style.ResolveTokens(t.Components[componentType], t.Tokens)
	if len(unresolved) > 0 {
		m.log.Debug("unresolved theme tokens",
			logger.EntityKind(Kind),
			logger.EntityID(id),
			logger.Component(componentType),
			slog.Any("tokens", unresolved),
		)
	}
	return resolved, nil
}

// SetActive marks id as the active theme.
func (m *Manager) SetActive(ctx context.Context, id string) error {
	if !m.items.Has(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.setActive(ctx, id)
	return nil
}

// setActive persists the pointer on a best-effort basis.
func (m *Manager) setActive(ctx context.Context, id string) {
	m.mu.Lock()
	m.active = id
	m.mu.Unlock()

	if m.adapter != nil {
		if err := storage.SetJSON(ctx, m.adapter, activeKey, id); err != nil {
			m.log.WarnContext(ctx, "failed to persist active theme",
				logger.EntityID(id),
				logger.StorageKey(activeKey),
				logger.Error(err),
			)
		}
	}
	m.emitter.Emit(ctx, events.Event{
		Name:       events.ThemeActivated,
		EntityKind: Kind,
		EntityID:   id,
		Time:       m.now().UTC(),
	})
}

// ActiveID returns the active theme ID, falling back to the default theme
// when the active one no longer exists.
func (m *Manager) ActiveID() string {
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()
	if !m.items.Has(active) {
		return DefaultID
	}
	return active
}

// Active returns the active theme.
func (m *Manager) Active() Theme {
	t, err := m.Get(m.ActiveID())
	if err != nil {
		return Default()
	}
	return t
}

// Export encodes user themes as a JSON array.
func (m *Manager) Export() ([]byte, error) {
	return m.items.Marshal()
}

// Import decodes a JSON array of themes and stores them. Existing themes
// are replaced only when overwrite is set; built-ins are never replaced.
func (m *Manager) Import(ctx context.Context, data []byte, overwrite bool) (int, error) {
	var incoming []Theme
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, errors.Join(ErrInvalidData, err)
	}
	return m.ImportThemes(ctx, incoming, overwrite)
}

// ImportThemes stores already decoded themes. Either every theme is
// accepted or none is.
func (m *Manager) ImportThemes(ctx context.Context, incoming []Theme, overwrite bool) (int, error) {
	now := m.now().UTC()
	n := 0
	err := m.items.Mutate(ctx, func(items map[string]Theme) error {
		for _, t := range incoming {
			t = t.Clone()
			t.sanitize()
			if t.ID == "" {
				t.ID = id.New(Kind)
			}
			if existing, ok := items[t.ID]; ok && (existing.IsBuiltIn || !overwrite) {
				continue
			}
			if err := t.Validate(); err != nil {
				return fmt.Errorf("theme %s: %w", t.ID, err)
			}
			t.IsBuiltIn = false
			if t.CreatedAt.IsZero() {
				t.CreatedAt = now
			}
			t.UpdatedAt = now
			items[t.ID] = t
			n++
		}
		for _, t := range items {
			if err := checkChain(items, t); err != nil {
				return fmt.Errorf("theme %s: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	m.emit(ctx, events.ActionImported, "", n)
	return n, nil
}

// Load reads user themes and the active pointer from storage.
func (m *Manager) Load(ctx context.Context) (int, error) {
	n, err := m.items.Load(ctx)
	if err != nil {
		return 0, err
	}
	m.items.Seed(Default())

	if m.adapter != nil {
		active, ok, err := storage.GetJSON[string](ctx, m.adapter, activeKey)
		if err != nil {
			m.log.WarnContext(ctx, "failed to load active theme",
				logger.StorageKey(activeKey),
				logger.Error(err),
			)
		} else if ok && m.items.Has(active) {
			m.mu.Lock()
			m.active = active
			m.mu.Unlock()
		}
	}
	return n, nil
}

// chain returns the theme followed by its ancestors.
func (m *Manager) chain(id string) ([]Theme, error) {
	t, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	out := []Theme{t}
	for cur := t; cur.Extends != ""; {
		if len(out) > maxChainDepth {
			return nil, fmt.Errorf("%w: %s", ErrInheritanceCycle, id)
		}
		parent, ok := m.items.Get(cur.Extends)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrParentNotFound, cur.Extends)
		}
		out = append(out, parent)
		cur = parent
	}
	return out, nil
}

func (m *Manager) emit(ctx context.Context, action, id string, payload any) {
	m.emitter.Emit(ctx, events.New(Kind, action, id, payload))
}

// checkChain walks t's ancestors in items, treating t as already stored.
func checkChain(items map[string]Theme, t Theme) error {
	seen := map[string]bool{t.ID: true}
	for parentID := t.Extends; parentID != ""; {
		if seen[parentID] {
			return fmt.Errorf("%w: %s", ErrInheritanceCycle, t.ID)
		}
		seen[parentID] = true
		parent, ok := items[parentID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
		}
		parentID = parent.Extends
	}
	return nil
}
