package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrMissingKeywordColumn = errors.New("keyword column not found in header")
	ErrEmptyCatalog         = errors.New("affiliate catalog is empty")
	ErrNotFound             = errors.New("not found")
	ErrStoreUnavailable     = errors.New("store unavailable")
)
