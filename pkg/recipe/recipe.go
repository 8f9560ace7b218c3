// Package recipe manages style recipes: named, reusable bundles of CSS
// declarations that can extend other recipes.
//
// Compose flattens every requested recipe's Extends chain depth-first,
// parents before children, and merges the result in argument order. A
// recipe reached twice is applied once, at its first position.
package recipe

import (
	"errors"
	"slices"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/sanitizer"
	"github.com/dmitrymomot/emailkit/pkg/search"
	"github.com/dmitrymomot/emailkit/pkg/style"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

const Kind = "recipe"

var (
	ErrNotFound       = errors.New("recipe: not found")
	ErrBuiltIn        = errors.New("recipe: built-in recipes are read-only")
	ErrParentNotFound = errors.New("recipe: extended recipe not found")
	ErrRecipeCycle    = errors.New("recipe: extends cycle")
	ErrRecipeInUse    = errors.New("recipe: recipe is extended by other recipes")
	ErrDuplicate      = errors.New("recipe: duplicate id")
	ErrInvalidData    = errors.New("recipe: invalid import data")
)

// StyleRecipe is a reusable bundle of style properties.
type StyleRecipe struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string       `json:"category,omitempty" yaml:"category,omitempty"`
	Tags        []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Extends     []string     `json:"extends,omitempty" yaml:"extends,omitempty"`
	Styles      style.Styles `json:"styles" yaml:"styles"`
	IsBuiltIn   bool         `json:"is_built_in" yaml:"is_built_in"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" yaml:"updated_at"`
}

// Patch holds optional changes for Update. Styles merge over the existing
// styles; Tags and Extends replace the existing lists when non-nil.
type Patch struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Extends     []string     `json:"extends,omitempty"`
	Styles      style.Styles `json:"styles,omitempty"`
}

func (r StyleRecipe) Clone() StyleRecipe {
	out := r
	out.Tags = slices.Clone(r.Tags)
	out.Extends = slices.Clone(r.Extends)
	out.Styles = r.Styles.Clone()
	return out
}

func (r StyleRecipe) Validate() error {
	rules := []validator.Rule{
		validator.Required("name", r.Name),
		validator.MaxLen("name", r.Name, 120),
		validator.MaxLen("description", r.Description, 1000),
		validator.When(r.ID != "", validator.ValidIdentifier("id", r.ID)),
		validator.When(r.Category != "", validator.ValidIdentifier("category", r.Category)),
		validator.MaxLenSlice("tags", r.Tags, 20),
		validator.MaxLenSlice("extends", r.Extends, 10),
	}
	for _, parent := range r.Extends {
		rules = append(rules, validator.ValidIdentifier("extends", parent))
	}
	rules = append(rules, validator.StyleRules("styles", r.Styles)...)
	return validator.Apply(rules...)
}

func (r *StyleRecipe) sanitize() {
	r.Name = sanitizer.Name(r.Name)
	r.Description = sanitizer.Text(r.Description)
	r.Category = sanitizer.ToKebabCase(r.Category)
	r.Tags = sanitizer.Tags(r.Tags)
	r.Extends = sanitizer.UniqueStrings(r.Extends)
	r.Styles = style.Normalize(sanitizer.Styles(r.Styles))
}

func (r StyleRecipe) doc() search.Doc {
	return search.Doc{
		Kind:        Kind,
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Tags:        r.Tags,
	}
}

func (p Patch) apply(r StyleRecipe) StyleRecipe {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Tags != nil {
		r.Tags = slices.Clone(p.Tags)
	}
	if p.Extends != nil {
		r.Extends = slices.Clone(p.Extends)
	}
	if p.Styles != nil {
		r.Styles = style.Merge(r.Styles, p.Styles)
	}
	return r
}
