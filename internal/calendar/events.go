package calendar

import (
	"cloudeng.io/errors"
	"github.com/google/uuid"
)

// ChangeEvent identifies the kind of mutation a listener is told about
type ChangeEvent int

const (
	Initialised ChangeEvent = iota + 1
	DateAdded
	DateRemoved
	DatesRemoved
	DayOfWeekRemoved
	CalendarAdded
	CalendarRemoved
)

var changeEventNames = map[ChangeEvent]string{
	Initialised:      "INITIALISED",
	DateAdded:        "DATE_ADDED",
	DateRemoved:      "DATE_REMOVED",
	DatesRemoved:     "DATES_REMOVED",
	DayOfWeekRemoved: "DAY_OF_WEEK_REMOVED",
	CalendarAdded:    "CALENDAR_ADDED",
	CalendarRemoved:  "CALENDAR_REMOVED",
}

func (e ChangeEvent) String() string {
	if name, ok := changeEventNames[e]; ok {
		return name
	}
	return "UNKNOWN"
}

// ChangeEventContext is the payload delivered to listeners.
// Calendar points at the calendar the event is about; listeners must not
// mutate it from inside the callback.
type ChangeEventContext struct {
	ID       uuid.UUID
	Event    ChangeEvent
	Message  string // empty when the event carries no message
	Calendar *Calendar
	Dates    []Date
}

// HasMessage reports whether the event carries a message
func (ec ChangeEventContext) HasMessage() bool {
	return ec.Message != ""
}

// Listener receives calendar change notifications
type Listener func(ChangeEventContext)

// Register appends listener to the calendar's registry
func (c *Calendar) Register(listener Listener) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if listener == nil {
		return invalidArgument("mandatory argument 'listener' is missing")
	}
	c.listeners = append(c.listeners, listener)
	return nil
}

// notify delivers one event to every listener in registration order.
// A panicking listener is recovered and reported; the rest still run.
func (c *Calendar) notify(event ChangeEvent, message string, subject *Calendar, dates ...Date) error {
	if len(c.listeners) == 0 {
		return nil
	}
	ec := ChangeEventContext{
		ID:       uuid.New(),
		Event:    event,
		Message:  message,
		Calendar: subject,
		Dates:    append([]Date{}, dates...),
	}
	errs := &errors.M{}
	for i, listener := range c.listeners {
		errs.Append(deliver(i, listener, ec))
	}
	return errs.Err()
}

func deliver(index int, listener Listener, ec ChangeEventContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ListenerError{Event: ec.Event, Listener: index, Value: r}
		}
	}()
	ec.Dates = append([]Date{}, ec.Dates...)
	listener(ec)
	return nil
}
