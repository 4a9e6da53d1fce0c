package native

import "errors"

// Failure vocabulary shared by providers.
var (
	ErrNotFound            = errors.New("entry not found")
	ErrPathExists          = errors.New("entry already exists")
	ErrTypeMismatch        = errors.New("entry has the wrong type")
	ErrInvalidModification = errors.New("invalid modification")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrInvalidState        = errors.New("invalid state")
	ErrEncoding            = errors.New("malformed path or url")
	ErrSecurity            = errors.New("access denied")
	ErrNotSupported        = errors.New("not supported")
)
