package theme

import (
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/sanitizer"
	"github.com/dmitrymomot/emailkit/pkg/style"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

// Kind is the entity kind used in events and IDs.
const Kind = "theme"

// DefaultID is the ID of the built-in theme.
const DefaultID = "default"

var (
	ErrNotFound         = errors.New("theme: not found")
	ErrBuiltIn          = errors.New("theme: built-in themes are read-only")
	ErrParentNotFound   = errors.New("theme: parent theme not found")
	ErrInheritanceCycle = errors.New("theme: inheritance cycle")
	ErrThemeInUse       = errors.New("theme: theme is extended by other themes")
	ErrTokenNotFound    = errors.New("theme: token not found")
	ErrDuplicate        = errors.New("theme: duplicate id")
	ErrInvalidData      = errors.New("theme: invalid import data")
)

// Theme is a named set of design tokens and component base styles.
type Theme struct {
	ID          string                  `json:"id" yaml:"id"`
	Name        string                  `json:"name" yaml:"name"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Extends     string                  `json:"extends,omitempty" yaml:"extends,omitempty"`
	Tokens      style.Tokens            `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Components  map[string]style.Styles `json:"components,omitempty" yaml:"components,omitempty"`
	IsBuiltIn   bool                    `json:"is_built_in" yaml:"is_built_in"`
	CreatedAt   time.Time               `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at" yaml:"updated_at"`
}

// Patch holds optional changes for Update. Tokens and Components merge one
// level deep into the existing maps; an empty value removes the entry.
type Patch struct {
	Name        *string                 `json:"name,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Extends     *string                 `json:"extends,omitempty"`
	Tokens      style.Tokens            `json:"tokens,omitempty"`
	Components  map[string]style.Styles `json:"components,omitempty"`
}

// Clone returns a deep copy of t.
func (t Theme) Clone() Theme {
	out := t
	out.Tokens = t.Tokens.Clone()
	out.Components = make(map[string]style.Styles, len(t.Components))
	for k, v := range t.Components {
		out.Components[k] = v.Clone()
	}
	return out
}

// Validate checks names, token values and component styles.
func (t Theme) Validate() error {
	rules := []validator.Rule{
		validator.Required("name", t.Name),
		validator.MaxLen("name", t.Name, 120),
		validator.MaxLen("description", t.Description, 1000),
		validator.When(t.ID != "", validator.ValidIdentifier("id", t.ID)),
		validator.When(t.Extends != "", validator.ValidIdentifier("extends", t.Extends)),
	}
	for _, group := range sortedKeys(t.Tokens) {
		for _, name := range sortedKeys(t.Tokens[group]) {
			path := group + "." + name
			rules = append(rules,
				validator.ValidTokenPath("tokens."+path, path),
				validator.ValidCSSValue("tokens."+path, t.Tokens[group][name]),
			)
		}
	}
	for _, ct := range sortedKeys(t.Components) {
		rules = append(rules, validator.ValidIdentifier("components."+ct, ct))
		rules = append(rules, validator.StyleRules("components."+ct, t.Components[ct])...)
	}
	return validator.Apply(rules...)
}

func (t *Theme) sanitize() {
	t.Name = sanitizer.Name(t.Name)
	t.Description = sanitizer.Text(t.Description)
	if t.Tokens == nil {
		t.Tokens = style.Tokens{}
	}
	if t.Components == nil {
		t.Components = map[string]style.Styles{}
	}
	for ct, s := range t.Components {
		t.Components[ct] = style.Normalize(sanitizer.Styles(s))
	}
}

// apply merges p into t.
func (p Patch) apply(t Theme) Theme {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Extends != nil {
		t.Extends = *p.Extends
	}
	for group, values := range p.Tokens {
		if t.Tokens[group] == nil {
			t.Tokens[group] = make(map[string]string, len(values))
		}
		for name, v := range values {
			if v == "" {
				delete(t.Tokens[group], name)
				continue
			}
			t.Tokens[group][name] = v
		}
		if len(t.Tokens[group]) == 0 {
			delete(t.Tokens, group)
		}
	}
	for ct, s := range p.Components {
		merged := style.Merge(t.Components[ct], s)
		if len(merged) == 0 {
			delete(t.Components, ct)
			continue
		}
		t.Components[ct] = merged
	}
	return t
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
