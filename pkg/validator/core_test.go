package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/validator"
)

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	var errs validator.ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs.AddField("email", "is required")
	errs.Add(validator.ValidationError{Field: "name", Message: "too short"})
	assert.Equal(t, "validation failed: email: is required; name: too short", errs.Error())
}

func TestValidationErrors_Accessors(t *testing.T) {
	t.Parallel()

	var errs validator.ValidationErrors
	assert.True(t, errs.IsEmpty())
	assert.NoError(t, errs.Err())

	errs.AddField("name", "required")
	errs.AddField("name", "too short")
	errs.AddField("slots", "missing")

	assert.True(t, errs.Has("name"))
	assert.False(t, errs.Has("email"))
	assert.Equal(t, []string{"required", "too short"}, errs.Get("name"))
	assert.Equal(t, []string{"name", "slots"}, errs.Fields())
	assert.Error(t, errs.Err())
}

func TestApply(t *testing.T) {
	t.Parallel()

	err := validator.Apply(
		validator.Required("name", "ok"),
		validator.Required("title", " "),
		validator.MaxLen("code", "abcdef", 3),
	)
	require.Error(t, err)

	verrs := validator.ExtractValidationErrors(err)
	require.Len(t, verrs, 2)
	assert.Equal(t, "title", verrs[0].Field)
	assert.Equal(t, "validation.required", verrs[0].TranslationKey)
	assert.Equal(t, "code", verrs[1].Field)
	assert.Equal(t, 3, verrs[1].TranslationValues["max"])

	assert.NoError(t, validator.Apply(validator.Required("name", "x")))
	assert.NoError(t, validator.Apply())
}

func TestErrorsIs(t *testing.T) {
	t.Parallel()

	err := validator.Apply(validator.Required("name", ""))
	assert.ErrorIs(t, err, validator.ErrValidationFailed)

	wrapped := fmt.Errorf("create theme: %w", err)
	assert.True(t, validator.IsValidationError(wrapped))
	assert.Len(t, validator.ExtractValidationErrors(wrapped), 1)

	assert.False(t, validator.IsValidationError(errors.New("plain")))
	assert.False(t, validator.IsValidationError(nil))
	assert.Nil(t, validator.ExtractValidationErrors(nil))
}

func TestWhen(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.When(false, validator.Required("x", ""))))
	assert.Error(t, validator.Apply(validator.When(true, validator.Required("x", ""))))
}

func TestPrefix(t *testing.T) {
	t.Parallel()

	err := validator.Prefix("blocks[0]", validator.Apply(validator.Required("type", "")))
	verrs := validator.ExtractValidationErrors(err)
	require.Len(t, verrs, 1)
	assert.Equal(t, "blocks[0].type", verrs[0].Field)

	plain := errors.New("plain")
	assert.Equal(t, plain, validator.Prefix("x", plain))
	assert.NoError(t, validator.Prefix("x", nil))
}
