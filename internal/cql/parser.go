package cql

import (
	"strconv"

	"cloudeng.io/errors"

	"github.com/username/date-calendar/internal/calendar"
	"github.com/username/date-calendar/pkg/dateutil"
)

// DateLayouts are the accepted spellings of a start date
var DateLayouts = []string{
	"2/1/2006",
	"2006-01-02",
}

type parser struct {
	tokens []token
	pos    int
	errs   *errors.M
}

// Parse parses a single create calendar statement. All lexical problems are
// reported together; parsing stops at the first grammar violation and the
// remaining value checks are reported alongside it.
func Parse(query string) (*Statement, error) {
	tokens, err := lex(query)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, errs: &errors.M{}}
	stmt := p.createCalendar()
	if err := p.errs.Err(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) keyword(words ...string) (string, bool) {
	t := p.peek()
	if t.kind == tokIdent {
		for _, w := range words {
			if t.text == w {
				p.next()
				return w, true
			}
		}
	}
	if len(words) == 1 {
		p.errs.Append(syntaxError(t.pos, "expected '%s', got %s", words[0], t))
	} else {
		p.errs.Append(syntaxError(t.pos, "expected one of %v, got %s", words, t))
	}
	return "", false
}

// create_calendar_stmt: CREATE CALENDAR calendar_identifier START date_identifier duration filters? ';'? EOF
func (p *parser) createCalendar() *Statement {
	stmt := &Statement{}

	if _, ok := p.keyword("create"); !ok {
		return nil
	}
	stmt.Type = "create"
	if _, ok := p.keyword("calendar"); !ok {
		return nil
	}
	if !p.calendarIdentifier(stmt) {
		return nil
	}
	if _, ok := p.keyword("start"); !ok {
		return nil
	}
	if !p.dateIdentifier(stmt) {
		return nil
	}
	if !p.duration(stmt) {
		return nil
	}
	if !p.filters(stmt) {
		return nil
	}

	if p.peek().kind == tokSemicolon {
		p.next()
	}
	if t := p.peek(); t.kind != tokEOF {
		p.errs.Append(syntaxError(t.pos, "unexpected %s after statement", t))
		return nil
	}
	return stmt
}

func (p *parser) calendarIdentifier(stmt *Statement) bool {
	t := p.next()
	if t.kind != tokString {
		p.errs.Append(syntaxError(t.pos, "expected quoted calendar name, got %s", t))
		return false
	}
	if t.text == "" {
		p.errs.Append(syntaxError(t.pos, "calendar name must not be empty"))
	}
	stmt.Name = t.text
	return true
}

// date_identifier accepts d/M/yyyy or yyyy-MM-dd, quoted or not
func (p *parser) dateIdentifier(stmt *Statement) bool {
	t := p.next()
	if t.kind != tokDate && t.kind != tokString {
		p.errs.Append(syntaxError(t.pos, "expected start date, got %s", t))
		return false
	}
	parsed, err := dateutil.ParseDate(t.text, DateLayouts...)
	if err != nil {
		p.errs.Append(syntaxError(t.pos, "invalid start date %s: %v", t.input, err))
		return true
	}
	stmt.Start = calendar.DateOf(parsed)
	return true
}

// duration: DURATION INT (days|weeks|months|years), at most MaxYears long
func (p *parser) duration(stmt *Statement) bool {
	if _, ok := p.keyword("duration"); !ok {
		return false
	}
	t := p.next()
	if t.kind != tokNumber {
		p.errs.Append(syntaxError(t.pos, "expected duration length, got %s", t))
		return false
	}
	n, err := strconv.Atoi(t.text)
	switch {
	case err != nil:
		p.errs.Append(syntaxError(t.pos, "invalid duration length %s: %v", t.input, err))
	case n <= 0:
		p.errs.Append(syntaxError(t.pos, "duration length must be positive, got %d", n))
	}
	stmt.Length = n

	word, ok := p.keyword(unitWords()...)
	if !ok {
		return false
	}
	stmt.Unit = unitsByWord[word]
	if err == nil && n > maxLength(stmt.Unit) {
		p.errs.Append(syntaxError(t.pos, "duration %d %s exceeds the maximum of %d years", n, stmt.Unit, MaxYears))
	}
	return true
}

// filters: (WITHOUT_WEEKENDS | WITHOUT_WEEKDAYS)*
func (p *parser) filters(stmt *Statement) bool {
	for p.peek().kind == tokIdent {
		t := p.next()
		f, ok := filtersByWord[t.text]
		if !ok {
			p.errs.Append(syntaxError(t.pos, "unknown filter %s", t))
			return false
		}
		if !stmt.Has(f) {
			stmt.Filters = append(stmt.Filters, f)
		}
	}
	return true
}
