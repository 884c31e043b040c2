package outline

import (
	"errors"
	"fmt"
)

// ErrNotLoaded means the store has no course yet (Load was never called or
// the session was disposed).
var ErrNotLoaded = errors.New("no course loaded")

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ConsistencyError signals a cross-entity invariant violation the caller
// asked for, e.g. linking a task from another quest.
type ConsistencyError struct {
	Reason string
}

func (e ConsistencyError) Error() string {
	return e.Reason
}
