package repos

import "errors"

// ErrNotFound is the sentinel for rows that callers asked for by id.
var ErrNotFound = errors.New("not found")
