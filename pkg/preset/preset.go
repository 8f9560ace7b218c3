// Package preset manages component presets: saved style and prop
// snapshots for one component type. Each type has at most one default
// preset, which the customization engine applies when no preset is
// requested explicitly.
//
// Lookup, validation and parse failures are reported as
// *PresetManagerError; adapter failures as *PresetStorageError.
package preset

import (
	"maps"
	"slices"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/sanitizer"
	"github.com/dmitrymomot/emailkit/pkg/search"
	"github.com/dmitrymomot/emailkit/pkg/style"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

const Kind = "preset"

// ComponentPreset is a saved style snapshot for a component type.
type ComponentPreset struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	ComponentType string         `json:"component_type" yaml:"component_type"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	Tags          []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Styles        style.Styles   `json:"styles" yaml:"styles"`
	Props         map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
	IsDefault     bool           `json:"is_default" yaml:"is_default"`
	IsBuiltIn     bool           `json:"is_built_in" yaml:"is_built_in"`
	CreatedAt     time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" yaml:"updated_at"`
}

// Patch holds optional changes for Update. Styles and Props merge; an
// empty style value or nil prop removes the key. Non-nil Tags replace.
type Patch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Styles      style.Styles   `json:"styles,omitempty"`
	Props       map[string]any `json:"props,omitempty"`
}

func (p ComponentPreset) Clone() ComponentPreset {
	out := p
	out.Tags = slices.Clone(p.Tags)
	out.Styles = p.Styles.Clone()
	out.Props = maps.Clone(p.Props)
	return out
}

func (p ComponentPreset) Validate() error {
	rules := []validator.Rule{
		validator.Required("name", p.Name),
		validator.MaxLen("name", p.Name, 120),
		validator.MaxLen("description", p.Description, 1000),
		validator.Required("component_type", p.ComponentType),
		validator.When(p.ComponentType != "", validator.ValidIdentifier("component_type", p.ComponentType)),
		validator.When(p.ID != "", validator.ValidIdentifier("id", p.ID)),
		validator.MaxLenSlice("tags", p.Tags, 20),
	}
	rules = append(rules, validator.StyleRules("styles", p.Styles)...)
	return validator.Apply(rules...)
}

func (p *ComponentPreset) sanitize() {
	p.Name = sanitizer.Name(p.Name)
	p.Description = sanitizer.Text(p.Description)
	p.ComponentType = sanitizer.ToKebabCase(p.ComponentType)
	p.Tags = sanitizer.Tags(p.Tags)
	p.Styles = style.Normalize(sanitizer.Styles(p.Styles))
}

func (p ComponentPreset) doc() search.Doc {
	return search.Doc{
		Kind:        Kind,
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.ComponentType,
		Tags:        p.Tags,
	}
}

func (pt Patch) apply(p ComponentPreset) ComponentPreset {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Tags != nil {
		p.Tags = slices.Clone(pt.Tags)
	}
	if pt.Styles != nil {
		p.Styles = style.Merge(p.Styles, pt.Styles)
	}
	for k, v := range pt.Props {
		if p.Props == nil {
			p.Props = make(map[string]any)
		}
		if v == nil {
			delete(p.Props, k)
			continue
		}
		p.Props[k] = v
	}
	return p
}
