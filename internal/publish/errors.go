package publish

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration marks failures caused by the caller's
// configuration rather than the publish machinery.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrStructureMismatch indicates the cloned repository does not have the
// expected file layout. Writing into a guessed path is never attempted.
var ErrStructureMismatch = errors.New("repository structure mismatch")

// TransportError wraps a clone/push/network failure. The kind travels with
// the error so the boundary never has to re-derive it from message text.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
