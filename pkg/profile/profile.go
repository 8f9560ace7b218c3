// Package profile manages customization profiles: saved combinations of a
// theme with variants, recipes and presets, plus free-form settings.
//
// References are plain IDs. When a ReferenceChecker is configured, Create,
// Update and Import fail with ErrUnknownReference for IDs that do not
// resolve; nothing cascades when a referenced entity is deleted later.
package profile

import (
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/sanitizer"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

const Kind = "profile"

// Reference kinds passed to a ReferenceChecker.
const (
	RefTheme   = "theme"
	RefVariant = "variant"
	RefRecipe  = "recipe"
	RefPreset  = "preset"
)

var (
	ErrNotFound         = errors.New("profile: not found")
	ErrUnknownReference = errors.New("profile: unknown reference")
	ErrNoActiveProfile  = errors.New("profile: no active profile")
	ErrDuplicate        = errors.New("profile: duplicate id")
	ErrInvalidData      = errors.New("profile: invalid import data")
)

// ReferenceChecker reports whether an entity of kind with id exists.
type ReferenceChecker func(kind, id string) bool

// CustomizationProfile bundles customization choices.
type CustomizationProfile struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	ThemeID     string         `json:"theme_id,omitempty" yaml:"theme_id,omitempty"`
	VariantIDs  []string       `json:"variant_ids,omitempty" yaml:"variant_ids,omitempty"`
	RecipeIDs   []string       `json:"recipe_ids,omitempty" yaml:"recipe_ids,omitempty"`
	PresetIDs   []string       `json:"preset_ids,omitempty" yaml:"preset_ids,omitempty"`
	Settings    map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
	CreatedAt   time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" yaml:"updated_at"`
}

// Patch holds optional changes for Update. Non-nil ID lists replace the
// existing ones; Settings merge with nil values removing keys.
type Patch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	ThemeID     *string        `json:"theme_id,omitempty"`
	VariantIDs  []string       `json:"variant_ids,omitempty"`
	RecipeIDs   []string       `json:"recipe_ids,omitempty"`
	PresetIDs   []string       `json:"preset_ids,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
}

func (p CustomizationProfile) Clone() CustomizationProfile {
	out := p
	out.VariantIDs = slices.Clone(p.VariantIDs)
	out.RecipeIDs = slices.Clone(p.RecipeIDs)
	out.PresetIDs = slices.Clone(p.PresetIDs)
	out.Settings = maps.Clone(p.Settings)
	return out
}

func (p CustomizationProfile) Validate() error {
	return validator.Apply(
		validator.Required("name", p.Name),
		validator.MaxLen("name", p.Name, 120),
		validator.MaxLen("description", p.Description, 1000),
		validator.When(p.ID != "", validator.ValidIdentifier("id", p.ID)),
		validator.MaxLenSlice("variant_ids", p.VariantIDs, 50),
		validator.MaxLenSlice("recipe_ids", p.RecipeIDs, 50),
		validator.MaxLenSlice("preset_ids", p.PresetIDs, 50),
	)
}

// References lists every referenced ID grouped by kind.
func (p CustomizationProfile) References() map[string][]string {
	refs := map[string][]string{
		RefVariant: p.VariantIDs,
		RefRecipe:  p.RecipeIDs,
		RefPreset:  p.PresetIDs,
	}
	if p.ThemeID != "" {
		refs[RefTheme] = []string{p.ThemeID}
	}
	return refs
}

func (p *CustomizationProfile) sanitize() {
	p.Name = sanitizer.Name(p.Name)
	p.Description = sanitizer.Text(p.Description)
	p.ThemeID = sanitizer.Trim(p.ThemeID)
	p.VariantIDs = sanitizer.UniqueStrings(p.VariantIDs)
	p.RecipeIDs = sanitizer.UniqueStrings(p.RecipeIDs)
	p.PresetIDs = sanitizer.UniqueStrings(p.PresetIDs)
}

func (pt Patch) apply(p CustomizationProfile) CustomizationProfile {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.ThemeID != nil {
		p.ThemeID = *pt.ThemeID
	}
	if pt.VariantIDs != nil {
		p.VariantIDs = slices.Clone(pt.VariantIDs)
	}
	if pt.RecipeIDs != nil {
		p.RecipeIDs = slices.Clone(pt.RecipeIDs)
	}
	if pt.PresetIDs != nil {
		p.PresetIDs = slices.Clone(pt.PresetIDs)
	}
	for k, v := range pt.Settings {
		if p.Settings == nil {
			p.Settings = make(map[string]any)
		}
		if v == nil {
			delete(p.Settings, k)
			continue
		}
		p.Settings[k] = v
	}
	return p
}
