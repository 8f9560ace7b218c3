// Package variant manages component variants: named style overrides for a
// component type, grouped by category such as size or intent.
//
// Each (component type, category) pair has at most one default variant.
// Apply layers variant styles over a base in the order given.
package variant

import (
	"errors"
	"maps"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/sanitizer"
	"github.com/dmitrymomot/emailkit/pkg/style"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

const Kind = "variant"

var (
	ErrNotFound          = errors.New("variant: not found")
	ErrBuiltIn           = errors.New("variant: built-in variants are read-only")
	ErrComponentMismatch = errors.New("variant: variants target different component types")
	ErrDuplicate         = errors.New("variant: duplicate id")
	ErrInvalidData       = errors.New("variant: invalid import data")
)

// ComponentVariant is a style override for one component type.
type ComponentVariant struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	ComponentType string         `json:"component_type" yaml:"component_type"`
	Category      string         `json:"category,omitempty" yaml:"category,omitempty"`
	Styles        style.Styles   `json:"styles,omitempty" yaml:"styles,omitempty"`
	Props         map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
	IsDefault     bool           `json:"is_default" yaml:"is_default"`
	IsBuiltIn     bool           `json:"is_built_in" yaml:"is_built_in"`
	CreatedAt     time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" yaml:"updated_at"`
}

// Patch holds optional changes for Update. Styles and Props merge over the
// existing values; an empty style value or a nil prop removes the key.
type Patch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Styles      style.Styles   `json:"styles,omitempty"`
	Props       map[string]any `json:"props,omitempty"`
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	ComponentType string `json:"component_type,omitempty"`
	Category      string `json:"category,omitempty"`
}

func (f Filter) match(v ComponentVariant) bool {
	return (f.ComponentType == "" || f.ComponentType == v.ComponentType) &&
		(f.Category == "" || f.Category == v.Category)
}

func (v ComponentVariant) Clone() ComponentVariant {
	out := v
	out.Styles = v.Styles.Clone()
	out.Props = maps.Clone(v.Props)
	return out
}

func (v ComponentVariant) Validate() error {
	rules := []validator.Rule{
		validator.Required("name", v.Name),
		validator.MaxLen("name", v.Name, 120),
		validator.MaxLen("description", v.Description, 1000),
		validator.Required("component_type", v.ComponentType),
		validator.When(v.ComponentType != "", validator.ValidIdentifier("component_type", v.ComponentType)),
		validator.When(v.Category != "", validator.ValidIdentifier("category", v.Category)),
		validator.When(v.ID != "", validator.ValidIdentifier("id", v.ID)),
	}
	rules = append(rules, validator.StyleRules("styles", v.Styles)...)
	return validator.Apply(rules...)
}

func (v *ComponentVariant) sanitize() {
	v.Name = sanitizer.Name(v.Name)
	v.Description = sanitizer.Text(v.Description)
	v.ComponentType = sanitizer.ToKebabCase(v.ComponentType)
	v.Category = sanitizer.ToKebabCase(v.Category)
	v.Styles = style.Normalize(sanitizer.Styles(v.Styles))
}

func (p Patch) apply(v ComponentVariant) ComponentVariant {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.Category != nil {
		v.Category = *p.Category
	}
	if p.Styles != nil {
		v.Styles = style.Merge(v.Styles, p.Styles)
	}
	for k, val := range p.Props {
		if v.Props == nil {
			v.Props = make(map[string]any)
		}
		if val == nil {
			delete(v.Props, k)
			continue
		}
		v.Props[k] = val
	}
	return v
}

// groupKey identifies the default slot a variant competes for.
func groupKey(v ComponentVariant) string {
	return v.ComponentType + "/" + v.Category
}
