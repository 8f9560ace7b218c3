// Package blueprint manages template blueprints: email markup skeletons
// with {{slot}} placeholders that Render fills with content.
package blueprint

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/sanitizer"
	"github.com/dmitrymomot/emailkit/pkg/search"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

const Kind = "blueprint"

// SlotType decides how a value is escaped when substituted.
type SlotType string

const (
	SlotText  SlotType = "text"
	SlotHTML  SlotType = "html"
	SlotURL   SlotType = "url"
	SlotImage SlotType = "image"
)

var slotTypes = []SlotType{SlotText, SlotHTML, SlotURL, SlotImage}

var (
	ErrNotFound    = errors.New("blueprint: not found")
	ErrBuiltIn     = errors.New("blueprint: built-in blueprints are read-only")
	ErrDuplicate   = errors.New("blueprint: duplicate id")
	ErrInvalidData = errors.New("blueprint: invalid import data")
)

var placeholderRegex = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.-]*)\s*\}\}`)

// Slot declares one placeholder.
type Slot struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Type     SlotType `json:"type" yaml:"type"`
	Default  string   `json:"default,omitempty" yaml:"default,omitempty"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
}

// TemplateBlueprint is a markup skeleton with named slots.
type TemplateBlueprint struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string    `json:"category,omitempty" yaml:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Markup      string    `json:"markup" yaml:"markup"`
	Slots       []Slot    `json:"slots,omitempty" yaml:"slots,omitempty"`
	IsBuiltIn   bool      `json:"is_built_in" yaml:"is_built_in"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Patch holds optional changes for Update. Non-nil Tags and Slots replace
// the existing lists.
type Patch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Markup      *string  `json:"markup,omitempty"`
	Slots       []Slot   `json:"slots,omitempty"`
}

// Slots returns the placeholder names in markup in order of first appearance.
func Slots(markup string) []string {
	var names []string
	for _, m := range placeholderRegex.FindAllStringSubmatch(markup, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

func (b TemplateBlueprint) Clone() TemplateBlueprint {
	out := b
	out.Tags = slices.Clone(b.Tags)
	out.Slots = slices.Clone(b.Slots)
	return out
}

// Slot returns the declaration for name.
func (b TemplateBlueprint) Slot(name string) (Slot, bool) {
	i := slices.IndexFunc(b.Slots, func(s Slot) bool { return s.Name == name })
	if i < 0 {
		return Slot{}, false
	}
	return b.Slots[i], true
}

// Validate checks structure: names, markup and slot declarations.
func (b TemplateBlueprint) Validate() error {
	rules := []validator.Rule{
		validator.Required("name", b.Name),
		validator.MaxLen("name", b.Name, 120),
		validator.MaxLen("description", b.Description, 1000),
		validator.Required("markup", b.Markup),
		validator.MaxLen("markup", b.Markup, 200_000),
		validator.When(b.ID != "", validator.ValidIdentifier("id", b.ID)),
		validator.When(b.Category != "", validator.ValidIdentifier("category", b.Category)),
		validator.MaxLenSlice("tags", b.Tags, 20),
	}
	seen := make(map[string]bool, len(b.Slots))
	for _, s := range b.Slots {
		field := "slots." + s.Name
		dup := seen[s.Name]
		seen[s.Name] = true
		rules = append(rules,
			validator.Required("slots", s.Name),
			validator.OneOf(field+".type", s.Type, slotTypes),
			validator.Rule{
				Check: func() bool { return !dup },
				Error: validator.ValidationError{
					Field:          field,
					Message:        "is declared more than once",
					TranslationKey: "validation.duplicate",
				},
			},
		)
	}
	return validator.Apply(rules...)
}

// Issues reports non-fatal problems: declared slots that the markup never uses.
func (b TemplateBlueprint) Issues() []string {
	used := Slots(b.Markup)
	var out []string
	for _, s := range b.Slots {
		if !slices.Contains(used, s.Name) {
			out = append(out, fmt.Sprintf("slot %q is declared but not used in markup", s.Name))
		}
	}
	return out
}

func (b *TemplateBlueprint) sanitize() {
	b.Name = sanitizer.Name(b.Name)
	b.Description = sanitizer.Text(b.Description)
	b.Category = sanitizer.ToKebabCase(b.Category)
	b.Tags = sanitizer.Tags(b.Tags)
	for i := range b.Slots {
		b.Slots[i].Label = sanitizer.Name(b.Slots[i].Label)
		if b.Slots[i].Type == "" {
			b.Slots[i].Type = SlotText
		}
	}
	b.declareSlots()
}

// declareSlots appends a text slot for every placeholder without a declaration.
func (b *TemplateBlueprint) declareSlots() {
	for _, name := range Slots(b.Markup) {
		if _, ok := b.Slot(name); !ok {
			b.Slots = append(b.Slots, Slot{Name: name, Label: name, Type: SlotText})
		}
	}
}

func (b TemplateBlueprint) doc() search.Doc {
	return search.Doc{
		Kind:        Kind,
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Category:    b.Category,
		Tags:        b.Tags,
	}
}

func (p Patch) apply(b TemplateBlueprint) TemplateBlueprint {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Tags != nil {
		b.Tags = slices.Clone(p.Tags)
	}
	if p.Markup != nil {
		b.Markup = *p.Markup
	}
	if p.Slots != nil {
		b.Slots = slices.Clone(p.Slots)
	}
	return b
}
