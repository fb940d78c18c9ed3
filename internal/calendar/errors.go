package calendar

import (
	"fmt"

	"cloudeng.io/errors"
)

var (
	// ErrInvalidArgument is returned for missing input, dates outside the
	// calendar range and dates the calendar does not manage.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState is returned when a structural precondition such as a
	// positive period or a non-negative offset is violated.
	ErrInvalidState = errors.New("invalid state")

	// ErrNotImplemented is returned by the reserved multi-calendar operations.
	ErrNotImplemented = errors.New("not implemented")

	// ErrListenerPanic marks a listener that panicked while handling an event.
	ErrListenerPanic = errors.New("calendar listener panicked")
)

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func invalidState(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// ListenerError describes one listener failure. The mutation that triggered
// the event has already been applied when it is reported.
type ListenerError struct {
	Event    ChangeEvent
	Listener int
	Value    interface{}
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %d failed handling %s: %v", e.Listener, e.Event, e.Value)
}

// Unwrap allows errors.Is(err, ErrListenerPanic)
func (e *ListenerError) Unwrap() error {
	return ErrListenerPanic
}
