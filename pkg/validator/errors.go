package validator

import "errors"

var (
	// ErrValidationFailed matches any ValidationErrors via errors.Is.
	ErrValidationFailed = errors.New("validation failed")

	ErrFieldRequired = errors.New("field is required")
	ErrInvalidValue  = errors.New("invalid value")
	ErrInvalidFormat = errors.New("invalid format")
)
