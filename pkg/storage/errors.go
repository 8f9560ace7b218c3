package storage

import "errors"

var (
	ErrNotFound          = errors.New("storage: key not found")
	ErrInvalidKey        = errors.New("storage: invalid key")
	ErrUnknownDriver     = errors.New("storage: unknown driver")
	ErrConnectionFailed  = errors.New("storage: connection failed")
	ErrHealthcheckFailed = errors.New("storage: healthcheck failed")
	ErrMigrationFailed   = errors.New("storage: migration failed")
	ErrMissingConfig     = errors.New("storage: missing configuration")
	ErrClearUnsupported  = errors.New("storage: adapter cannot list keys")
	ErrDecode            = errors.New("storage: failed to decode value")
	ErrEncode            = errors.New("storage: failed to encode value")
)
