package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLimit is returned for a negative recent-inventory limit.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrNotConfigured is returned by operations whose backing service is
	// not set up.
	ErrNotConfigured = errors.New("not configured")
)

// QueryError reports a failed read against the store or the commerce API.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
