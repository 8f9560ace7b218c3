package customization

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/emailkit/pkg/logger"
	"github.com/dmitrymomot/emailkit/pkg/profile"
	"github.com/dmitrymomot/emailkit/pkg/style"
)

// Request selects the layers for one component.
type Request struct {
	ComponentType string       `json:"component_type"`
	ThemeID       string       `json:"theme_id,omitempty"`
	PresetID      string       `json:"preset_id,omitempty"`
	RecipeIDs     []string     `json:"recipe_ids,omitempty"`
	VariantIDs    []string     `json:"variant_ids,omitempty"`
	Overrides     style.Styles `json:"overrides,omitempty"`
}

// Resolution is the outcome of ResolveStyles.
type Resolution struct {
	ComponentType string       `json:"component_type"`
	ThemeID       string       `json:"theme_id"`
	PresetID      string       `json:"preset_id,omitempty"`
	Styles        style.Styles `json:"styles"`
	// Unresolved lists token references with no value in the theme.
	Unresolved []string `json:"unresolved,omitempty"`
}

// ResolveStyles computes the final styles for a component. An empty
// ThemeID uses the active theme; an empty PresetID uses the default preset
// for the component type, if any. Unknown IDs are errors.
func (e *Engine) ResolveStyles(ctx context.Context, req Request) (Resolution, error) {
	def, err := e.registry.Get(req.ComponentType)
	if err != nil {
		return Resolution{}, err
	}

	themeID := req.ThemeID
	if themeID == "" {
		themeID = e.themes.ActiveID()
	}
	th, err := e.themes.Resolve(themeID)
	if err != nil {
		return Resolution{}, err
	}

	var presetStyles style.Styles
	presetID := req.PresetID
	if presetID != "" {
		p, err := e.presets.Get(presetID)
		if err != nil {
			return Resolution{}, err
		}
		if p.ComponentType != req.ComponentType {
			return Resolution{}, fmt.Errorf("%w: %s is for %s", ErrPresetMismatch, p.ID, p.ComponentType)
		}
		presetStyles = p.Styles
	} else if p, ok := e.presets.Default(req.ComponentType); ok {
		presetID = p.ID
		presetStyles = p.Styles
	}

	recipeStyles, err := e.recipes.Compose(req.RecipeIDs...)
	if err != nil {
		return Resolution{}, err
	}

	variantStyles, err := e.variants.ApplyFor(req.ComponentType, nil, req.VariantIDs...)
	if err != nil {
		return Resolution{}, err
	}

	merged := style.Merge(
		def.DefaultStyles,
		th.Components[req.ComponentType],
		presetStyles,
		recipeStyles,
		variantStyles,
		req.Overrides,
	)
	resolved, unresolved := style.ResolveTokens(merged, th.Tokens)
	if len(unresolved) > 0 {
		e.log.DebugContext(ctx, "unresolved tokens",
			slog.String("component_type", req.ComponentType),
			logger.EntityID(themeID),
			slog.Any("tokens", unresolved),
		)
	}

	return Resolution{
		ComponentType: req.ComponentType,
		ThemeID:       themeID,
		PresetID:      presetID,
		Styles:        resolved,
		Unresolved:    unresolved,
	}, nil
}

// ResolveForProfile resolves styles with the choices saved in a profile:
// its theme, the first of its presets for the component type, all of its
// recipes, and those of its variants that target the component type.
// An empty profileID uses the active profile.
func (e *Engine) ResolveForProfile(ctx context.Context, profileID, componentType string, overrides style.Styles) (Resolution, error) {
	req, err := e.ProfileRequest(profileID, componentType)
	if err != nil {
		return Resolution{}, err
	}
	req.Overrides = overrides
	return e.ResolveStyles(ctx, req)
}

// ProfileRequest builds the Request a profile implies for componentType.
func (e *Engine) ProfileRequest(profileID, componentType string) (Request, error) {
	var (
		prof profile.CustomizationProfile
		err  error
	)
	if profileID == "" {
		prof, err = e.profiles.Active()
	} else {
		prof, err = e.profiles.Get(profileID)
	}
	if err != nil {
		return Request{}, err
	}

	req := Request{
		ComponentType: componentType,
		ThemeID:       prof.ThemeID,
		RecipeIDs:     slices.Clone(prof.RecipeIDs),
	}
	for _, pid := range prof.PresetIDs {
		pr, err := e.presets.Get(pid)
		if err != nil {
			return Request{}, err
		}
		if pr.ComponentType == componentType {
			req.PresetID = pr.ID
			break
		}
	}
	for _, vid := range prof.VariantIDs {
		v, err := e.variants.Get(vid)
		if err != nil {
			return Request{}, err
		}
		if v.ComponentType == componentType {
			req.VariantIDs = append(req.VariantIDs, v.ID)
		}
	}
	return req, nil
}

// ActivateProfile marks the profile active and activates its theme.
func (e *Engine) ActivateProfile(ctx context.Context, id string) error {
	prof, err := e.profiles.Get(id)
	if err != nil {
		return err
	}
	if prof.ThemeID != "" {
		if err := e.themes.SetActive(ctx, prof.ThemeID); err != nil {
			return err
		}
	}
	return e.profiles.SetActive(ctx, id)
}
