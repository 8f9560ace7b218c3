// Package registry maps component types to their definitions: display
// metadata, default props and styles, and the function that renders them.
package registry

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/emailkit/pkg/style"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

var (
	ErrNotFound   = errors.New("registry: component not found")
	ErrDuplicate  = errors.New("registry: component already registered")
	ErrInvalidDef = errors.New("registry: invalid component definition")
)

// RenderFunc builds the component for resolved props and styles.
// children is empty for components that cannot contain others.
type RenderFunc func(props Props, styles style.Styles, children []templ.Component) templ.Component

type Definition struct {
	Type          string       `json:"type"`
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	Description   string       `json:"description,omitempty"`
	Container     bool         `json:"container"`
	DefaultProps  Props        `json:"default_props,omitempty"`
	DefaultStyles style.Styles `json:"default_styles,omitempty"`
	Render        RenderFunc   `json:"-"`
}

// Registry is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func New() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds d. An empty Name defaults to the title-cased type.
func (r *Registry) Register(d Definition) error {
	d.Type = strings.TrimSpace(d.Type)
	rules := []validator.Rule{validator.ValidIdentifier("type", d.Type)}
	rules = append(rules, validator.StyleRules("default_styles", d.DefaultStyles)...)
	if err := validator.Apply(rules...); err != nil {
		return errors.Join(ErrInvalidDef, err)
	}
	if d.Render == nil {
		return fmt.Errorf("%w: %s has no render function", ErrInvalidDef, d.Type)
	}
	if d.Name == "" {
		d.Name = DisplayName(d.Type)
	}
	if d.Category == "" {
		d.Category = "content"
	}
	d.DefaultProps = d.DefaultProps.Clone()
	d.DefaultStyles = style.Normalize(d.DefaultStyles)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[d.Type]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, d.Type)
	}
	r.defs[d.Type] = d
	return nil
}

// MustRegister panics when Register fails.
func (r *Registry) MustRegister(d Definition) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(componentType string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[componentType]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrNotFound, componentType)
	}
	return d.clone(), nil
}

func (r *Registry) MustGet(componentType string) Definition {
	d, err := r.Get(componentType)
	if err != nil {
		panic(err)
	}
	return d
}

func (r *Registry) Has(componentType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[componentType]
	return ok
}

// List returns every definition sorted by category, then type.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d.clone())
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Definition) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Type, b.Type))
	})
	return out
}

// Categories returns the distinct categories in sorted order.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := make(map[string]struct{})
	for _, d := range r.defs {
		set[d.Category] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

func (r *Registry) ByCategory(category string) []Definition {
	var out []Definition
	for _, d := range r.List() {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Unregister removes a definition. It reports whether one was removed.
func (r *Registry) Unregister(componentType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.defs[componentType]
	delete(r.defs, componentType)
	return ok
}

// Build renders componentType with props layered over the defaults.
// styles are used as given; callers resolve them beforehand.
func (r *Registry) Build(componentType string, props Props, styles style.Styles, children ...templ.Component) (templ.Component, error) {
	d, err := r.Get(componentType)
	if err != nil {
		return nil, err
	}
	return d.Render(MergeProps(d.DefaultProps, props), styles, children), nil
}

func (d Definition) clone() Definition {
	d.DefaultProps = d.DefaultProps.Clone()
	d.DefaultStyles = d.DefaultStyles.Clone()
	return d
}

// DisplayName turns "call-to-action" into "Call To Action".
func DisplayName(componentType string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(componentType)
	return cases.Title(language.English).String(s)
}
