// Package export writes calendars in interchange formats
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/username/date-calendar/internal/calendar"
)

const (
	icalVersion = "2.0"
	icalProdID  = "-//date-calendar//EN"

	// stubVCalendar is written for calendars without dates. The encoder
	// refuses a VCALENDAR without children.
	stubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:" + icalVersion + "\r\nPRODID:" + icalProdID + "\r\nEND:VCALENDAR\r\n"
)

// uidNamespace scopes the name based event UIDs
var uidNamespace = uuid.MustParse("7c1e9c0a-3f6b-5d7e-9a4f-2b8d6e0c1a53")

// EventUID returns the stable UID of the event exported for d of the named calendar
func EventUID(name string, d calendar.Date) string {
	return uuid.NewSHA1(uidNamespace, []byte(name+"/"+d.String())).String()
}

// WriteICS writes c as an iCalendar stream with one all-day event per date,
// oldest first. stamp is used as DTSTAMP of every event.
func WriteICS(w io.Writer, c *calendar.Calendar, stamp time.Time) error {
	if c == nil {
		return fmt.Errorf("calendar is missing")
	}

	dates := c.AllDates()
	if len(dates) == 0 {
		_, err := io.WriteString(w, stubVCalendar)
		return err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, icalVersion)
	cal.Props.SetText(ical.PropProductID, icalProdID)
	cal.Props.SetText("X-WR-CALNAME", c.Name())

	dtStamp := ical.NewProp(ical.PropDateTimeStamp)
	dtStamp.SetDateTime(stamp.UTC())

	for i := len(dates) - 1; i >= 0; i-- {
		d := dates[i]

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, EventUID(c.Name(), d))
		event.Props.Set(dtStamp)
		event.Props.SetText(ical.PropSummary, c.Name())

		dtStart := ical.NewProp(ical.PropDateTimeStart)
		dtStart.SetDate(d.In(time.UTC))
		event.Props.Set(dtStart)

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar %s: %w", c.Name(), err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
