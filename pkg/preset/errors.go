package preset

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("preset: not found")
	ErrBuiltIn     = errors.New("preset: built-in presets are read-only")
	ErrDuplicate   = errors.New("preset: duplicate id")
	ErrInvalidData = errors.New("preset: invalid data")
)

// PresetManagerError reports a failed lookup, validation or parse.
type PresetManagerError struct {
	Op       string
	PresetID string
	Err      error
}

func (e *PresetManagerError) Error() string {
	if e.PresetID == "" {
		return fmt.Sprintf("preset %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("preset %s %s: %v", e.Op, e.PresetID, e.Err)
}

func (e *PresetManagerError) Unwrap() error { return e.Err }

// PresetStorageError reports a storage adapter failure.
type PresetStorageError struct {
	Op  string
	Key string
	Err error
}

func (e *PresetStorageError) Error() string {
	return fmt.Sprintf("preset storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PresetStorageError) Unwrap() error { return e.Err }
