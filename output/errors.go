package output

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned by queries this package does not implement.
	ErrUnsupported = errors.New("output: operation not supported")
	// ErrOutOfRange is returned with a zero result for coordinates outside the source image.
	ErrOutOfRange = errors.New("output: query out of range")
	// ErrInvalidState is returned when an operation does not fit the window's current state.
	ErrInvalidState = errors.New("output: invalid window state")
	// ErrNoDepth is returned by depth operations on windows created without a depth target.
	ErrNoDepth = errors.New("output: window has no depth target")
	// ErrUnsupportedHandle is returned by surface factories for unknown handle shapes.
	ErrUnsupportedHandle = errors.New("output: unsupported window handle")
)

// ResourceError reports a GPU object that could not be created for a window.
type ResourceError struct {
	Window   WindowID
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("output window %d: create %s: %v", e.Window, e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

func resourceErr(id WindowID, resource string, err error) error {
	return &ResourceError{Window: id, Resource: resource, Err: err}
}

// stateError wraps ErrInvalidState with the window and state involved.
func stateError(id WindowID, s State, op string) error {
	return fmt.Errorf("%w: %s on window %d in state %s", ErrInvalidState, op, id, s)
}
