package board

import (
	"errors"
	"fmt"
)

// Not-found conditions leave the board untouched. They are logged and
// returned to the caller but never carry partial state.
var (
	ErrOrderNotFound = errors.New("board: order not found")
	ErrTruckNotFound = errors.New("board: truck not in active roster")
	ErrDayNotFound   = errors.New("board: date outside active week")
)

// RemoteError wraps a provider rejection. The corresponding local mutation
// was aborted before it started.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string { return fmt.Sprintf("board: remote %s failed: %v", e.Op, e.Err) }
func (e *RemoteError) Unwrap() error { return e.Err }
