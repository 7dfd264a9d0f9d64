package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a storage-level unique constraint rejected the
	// write. The constraint is the authoritative duplicate signal; service
	// level pre-checks only exist for friendlier messages.
	ErrDuplicate = errors.New("repository: duplicate key")

	// ErrDuplicateUsername and ErrDuplicateEmail are field-specific duplicate
	// signals for the user table, which carries two unique indexes. Both
	// match ErrDuplicate under errors.Is so callers that do not care about
	// the field keep working.
	ErrDuplicateUsername = fmt.Errorf("%w: username", ErrDuplicate)
	ErrDuplicateEmail    = fmt.Errorf("%w: email", ErrDuplicate)
)
