package content

import "errors"

var (
	// ErrNotFound: the referenced id does not exist in the family's store.
	ErrNotFound = errors.New("content item not found")

	// ErrNotVisible: the item exists but the audience resolver rejects the
	// viewer. Kept distinct from ErrNotFound for auditing; the API boundary
	// collapses both to the same not-found response so that existence is
	// not leaked to unauthorized callers.
	ErrNotVisible = errors.New("content item not visible to viewer")

	// ErrStaleWrite: the optimistic version check failed because another
	// write landed first. Safe for the caller to reload and retry.
	ErrStaleWrite = errors.New("content item was modified concurrently")
)
