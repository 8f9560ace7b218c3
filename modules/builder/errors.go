package builder

import (
	"errors"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/blueprint"
	docbuilder "github.com/dmitrymomot/emailkit/pkg/builder"
	"github.com/dmitrymomot/emailkit/pkg/collection"
	"github.com/dmitrymomot/emailkit/pkg/customization"
	"github.com/dmitrymomot/emailkit/pkg/email"
	"github.com/dmitrymomot/emailkit/pkg/preset"
	"github.com/dmitrymomot/emailkit/pkg/profile"
	"github.com/dmitrymomot/emailkit/pkg/recipe"
	"github.com/dmitrymomot/emailkit/pkg/registry"
	"github.com/dmitrymomot/emailkit/pkg/storage"
	"github.com/dmitrymomot/emailkit/pkg/theme"
	"github.com/dmitrymomot/emailkit/pkg/variant"
)

var errorStatus = []struct {
	target error
	status handler.HTTPError
}{
	{theme.ErrNotFound, handler.ErrNotFound},
	{theme.ErrTokenNotFound, handler.ErrNotFound},
	{variant.ErrNotFound, handler.ErrNotFound},
	{recipe.ErrNotFound, handler.ErrNotFound},
	{blueprint.ErrNotFound, handler.ErrNotFound},
	{preset.ErrNotFound, handler.ErrNotFound},
	{profile.ErrNotFound, handler.ErrNotFound},
	{profile.ErrNoActiveProfile, handler.ErrNotFound},
	{registry.ErrNotFound, handler.ErrNotFound},
	{collection.ErrNotFound, handler.ErrNotFound},
	{storage.ErrNotFound, handler.ErrNotFound},

	{theme.ErrBuiltIn, handler.ErrConflict},
	{variant.ErrBuiltIn, handler.ErrConflict},
	{recipe.ErrBuiltIn, handler.ErrConflict},
	{blueprint.ErrBuiltIn, handler.ErrConflict},
	{preset.ErrBuiltIn, handler.ErrConflict},
	{theme.ErrDuplicate, handler.ErrConflict},
	{variant.ErrDuplicate, handler.ErrConflict},
	{recipe.ErrDuplicate, handler.ErrConflict},
	{blueprint.ErrDuplicate, handler.ErrConflict},
	{preset.ErrDuplicate, handler.ErrConflict},
	{profile.ErrDuplicate, handler.ErrConflict},
	{collection.ErrDuplicate, handler.ErrConflict},
	{theme.ErrThemeInUse, handler.ErrConflict},
	{recipe.ErrRecipeInUse, handler.ErrConflict},

	{theme.ErrParentNotFound, handler.ErrUnprocessableEntity},
	{theme.ErrInheritanceCycle, handler.ErrUnprocessableEntity},
	{recipe.ErrParentNotFound, handler.ErrUnprocessableEntity},
	{recipe.ErrRecipeCycle, handler.ErrUnprocessableEntity},
	{variant.ErrComponentMismatch, handler.ErrUnprocessableEntity},
	{profile.ErrUnknownReference, handler.ErrUnprocessableEntity},
	{customization.ErrPresetMismatch, handler.ErrUnprocessableEntity},
	{customization.ErrInvalidBundle, handler.ErrUnprocessableEntity},
	{customization.ErrUnsupportedVersion, handler.ErrUnprocessableEntity},
	{docbuilder.ErrInvalidDocument, handler.ErrUnprocessableEntity},
	{docbuilder.ErrChildrenNotAllowed, handler.ErrUnprocessableEntity},
	{docbuilder.ErrTooDeep, handler.ErrUnprocessableEntity},
	{docbuilder.ErrExportFailed, handler.ErrUnprocessableEntity},
	{email.ErrInvalidParams, handler.ErrUnprocessableEntity},

	{customization.ErrUnknownFormat, handler.ErrBadRequest},
	{storage.ErrInvalidKey, handler.ErrBadRequest},

	{docbuilder.ErrSenderNotConfigured, handler.ErrServiceUnavailable},
	{email.ErrFailedToSendEmail, handler.ErrBadGateway},
}

// MapError translates domain sentinels into HTTP errors: lookups to 404,
// read-only, duplicate and in-use conflicts to 409, broken references and
// invalid documents to 422. Anything else is returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.target) {
			return m.status.Wrap(err)
		}
	}
	return err
}
