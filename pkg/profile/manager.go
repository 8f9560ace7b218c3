package profile

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
)

const (
	storageKey = "profiles"
	activeKey  = "profiles:active"
)

// Manager stores profiles and tracks the active one.
type Manager struct {
	items   *collection.Collection[CustomizationProfile]
	adapter storage.Adapter
	emitter *events.Emitter
	log     *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	check  ReferenceChecker
	active string
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

// WithReferenceChecker enables existence checks for referenced IDs.
func WithReferenceChecker(fn ReferenceChecker) Option {
	return func(m *Manager) { m.check = fn }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	copts := []collection.Option[CustomizationProfile]{
		collection.WithClone(CustomizationProfile.Clone),
		collection.WithLogger[CustomizationProfile](m.log),
	}
	if m.adapter != nil {
		copts = append(copts, collection.WithAdapter[CustomizationProfile](m.adapter))
	}
	m.items = collection.New(storageKey, func(p CustomizationProfile) string { return p.ID }, copts...)
	return m
}

// SetReferenceChecker replaces the checker after construction, for callers
// that build the referenced managers later.
func (m *Manager) SetReferenceChecker(fn ReferenceChecker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.check = fn
}

func (m *Manager) Create(ctx context.Context, p CustomizationProfile) (CustomizationProfile, error) {
	p = p.Clone()
	p.sanitize()
	if err := p.Validate(); err != nil {
		return CustomizationProfile{}, err
	}
	if err := m.checkReferences(p); err != nil {
		return CustomizationProfile{}, err
	}
	if p.ID == "" {
		p.ID = id.New(Kind)
	}
	now := m.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	err := m.items.Mutate(ctx, func(items map[string]CustomizationProfile) error {
		if _, ok := items[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, p.ID)
		}
		items[p.ID] = p
		return nil
	})
	if err != nil {
		return CustomizationProfile{}, err
	}

	m.emit(ctx, events.ActionCreated, p.ID, p)
	return p.Clone(), nil
}

func (m *Manager) Get(id string) (CustomizationProfile, error) {
	p, ok := m.items.Get(id)
	if !ok {
		return CustomizationProfile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// List returns profiles ordered by name.
func (m *Manager) List() []CustomizationProfile {
	all := m.items.All()
	slices.SortStableFunc(all, func(a, b CustomizationProfile) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return all
}

func (m *Manager) Update(ctx context.Context, id string, pt Patch) (CustomizationProfile, error) {
	updated, err := m.items.Update(ctx, id, func(cur CustomizationProfile) (CustomizationProfile, error) {
		next := pt.apply(cur)
		next.sanitize()
		if err := next.Validate(); err != nil {
			return cur, err
		}
		if err := m.checkReferences(next); err != nil {
			return cur, err
		}
		next.UpdatedAt = m.now().UTC()
		return next, nil
	})
	if errors.Is(err, collection.ErrNotFound) {
		return CustomizationProfile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return CustomizationProfile{}, err
	}

	m.emit(ctx, events.ActionUpdated, id, updated)
	return updated, nil
}

// Delete removes a profile. Deleting the active profile leaves none active.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.RLock()
	wasActive := m.active == id
	m.mu.RUnlock()

	if _, err := m.items.Delete(ctx, id); err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	m.emit(ctx, events.ActionDeleted, id, nil)

	if wasActive {
		m.mu.Lock()
		m.active = ""
		m.mu.Unlock()
		m.persistActive(ctx, "")
	}
	return nil
}

// SetActive marks id as the active profile.
func (m *Manager) SetActive(ctx context.Context, id string) error {
	if !m.items.Has(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.mu.Lock()
	m.active = id
	m.mu.Unlock()

	m.persistActive(ctx, id)
	m.emitter.Emit(ctx, events.Event{Name: events.ProfileActivated, EntityKind: Kind, EntityID: id})
	return nil
}

// ActiveID returns the active profile ID, or "" when none is active.
func (m *Manager) ActiveID() string {
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()
	if active == "" || !m.items.Has(active) {
		return ""
	}
	return active
}

// Active returns the active profile or ErrNoActiveProfile.
func (m *Manager) Active() (CustomizationProfile, error) {
	active := m.ActiveID()
	if active == "" {
		return CustomizationProfile{}, ErrNoActiveProfile
	}
	return m.Get(active)
}

func (m *Manager) Export() ([]byte, error) {
	return m.items.Marshal()
}

func (m *Manager) Import(ctx context.Context, data []byte, overwrite bool) (int, error) {
	var incoming []CustomizationProfile
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, errors.Join(ErrInvalidData, err)
	}
	return m.ImportProfiles(ctx, incoming, overwrite)
}

// ImportProfiles stores decoded profiles atomically. References are
// checked, so related entities must be imported first.
func (m *Manager) ImportProfiles(ctx context.Context, incoming []CustomizationProfile, overwrite bool) (int, error) {
	now := m.now().UTC()
	n := 0
	err := m.items.Mutate(ctx, func(items map[string]CustomizationProfile) error {
		for _, p := range incoming {
			p = p.Clone()
			p.sanitize()
			if p.ID == "" {
				p.ID = id.New(Kind)
			}
			if _, ok := items[p.ID]; ok && !overwrite {
				continue
			}
			if err := p.Validate(); err != nil {
				return fmt.Errorf("profile %s: %w", p.ID, err)
			}
			if err := m.checkReferences(p); err != nil {
				return fmt.Errorf("profile %s: %w", p.ID, err)
			}
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			p.UpdatedAt = now
			items[p.ID] = p
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

// Load reads stored profiles and the active pointer.
func (m *Manager) Load(ctx context.Context) (int, error) {
	n, err := m.items.Load(ctx)
	if err != nil {
		return 0, err
	}
	if m.adapter == nil {
		return n, nil
	}
	active, ok, err := storage.GetJSON[string](ctx, m.adapter, activeKey)
	if err != nil {
		m.log.WarnContext(ctx, "failed to load active profile",
			logger.StorageKey(activeKey),
			logger.Error(err),
		)
		return n, nil
	}
	if ok && m.items.Has(active) {
		m.mu.Lock()
		m.active = active
		m.mu.Unlock()
	}
	return n, nil
}

func (m *Manager) persistActive(ctx context.Context, id string) {
	if m.adapter == nil {
		return
	}
	var err error
	if id == "" {
		err = m.adapter.Remove(ctx, activeKey)
	} else {
		err = storage.SetJSON(ctx, m.adapter, activeKey, id)
	}
	if err != nil {
		m.log.WarnContext(ctx, "failed to persist active profile",
			logger.EntityID(id),
			logger.StorageKey(activeKey),
			logger.Error(err),
		)
	}
}

// checkReferences returns every unknown reference joined into one error.
func (m *Manager) checkReferences(p CustomizationProfile) error {
	m.mu.RLock()
	check := m.check
	m.mu.RUnlock()
	if check == nil {
		return nil
	}

	var errs []error
	for _, kind := range []string{RefTheme, RefVariant, RefRecipe, RefPreset} {
		for _, ref := range p.References()[kind] {
			if !check(kind, ref) {
				errs = append(errs, fmt.Errorf("%w: %s %s", ErrUnknownReference, kind, ref))
			}
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) emit(ctx context.Context, action, id string, payload any) {
	m.emitter.Emit(ctx, events.New(Kind, action, id, payload))
}
