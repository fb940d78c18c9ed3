package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLayouts are tried in order by ParseDate when no layout is given
var DefaultLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(date time.Time) bool {
	weekday := date.Weekday()
	return weekday >= time.Monday && weekday <= time.Friday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// ParseDate parses value with the first matching layout.
// DefaultLayouts are used when layouts is empty.
func ParseDate(value string, layouts ...string) (time.Time, error) {
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// patternElements maps a letter and its repeat count to a Go layout element
var patternElements = map[byte]map[int]string{
	'y': {1: "2006", 2: "06", 4: "2006"},
	'M': {1: "1", 2: "01", 3: "Jan", 4: "January"},
	'd': {1: "2", 2: "02"},
	'E': {1: "Mon", 2: "Mon", 3: "Mon", 4: "Monday"},
}

// ConvertPattern turns a date pattern such as "yyyy-MM-dd" or "dd/MM/yyyy"
// into a Go time layout. Text in single quotes is copied as is. A pattern
// that already is a Go layout is returned unchanged.
func ConvertPattern(pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("date pattern is empty")
	}
	if strings.Contains(pattern, "2006") || (strings.Contains(pattern, "01") && strings.Contains(pattern, "02")) {
		return pattern, nil
	}

	var b strings.Builder
	for i := 0; i < len(pattern); {
		ch := pattern[i]

		if ch == '\'' {
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				return "", fmt.Errorf("unterminated quote in date pattern %q", pattern)
			}
			b.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}

		elements, ok := patternElements[ch]
		if !ok {
			if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' {
				return "", fmt.Errorf("unsupported letter %q in date pattern %q", ch, pattern)
			}
			b.WriteByte(ch)
			i++
			continue
		}

		n := 1
		for i+n < len(pattern) && pattern[i+n] == ch {
			n++
		}
		element, ok := elements[n]
		if !ok {
			return "", fmt.Errorf("unsupported element %q in date pattern %q", strings.Repeat(string(ch), n), pattern)
		}
		b.WriteString(element)
		i += n
	}
	return b.String(), nil
}
