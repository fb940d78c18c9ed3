// Package cql parses calendar query statements such as
//
//	create calendar 'business' start 1/11/2008 duration 2 years without_weekends
package cql

import (
	"fmt"
	"strings"
	"unicode"

	"cloudeng.io/errors"
)

// ErrSyntax marks every error reported for a malformed statement
var ErrSyntax = errors.New("syntax error")

type tokenKind int

const (
	tokEOF tokenKind = iota + 1
	tokIdent
	tokString
	tokNumber
	tokDate
	tokSemicolon
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string literal"
	case tokNumber:
		return "number"
	case tokDate:
		return "date"
	case tokSemicolon:
		return "';'"
	default:
		return "unknown"
	}
}

type token struct {
	kind  tokenKind
	text  string // string literals without their quotes
	pos   int    // 1-based column
	input string // raw text as written
}

func (t token) String() string {
	if t.kind == tokEOF {
		return t.kind.String()
	}
	return fmt.Sprintf("%s %q", t.kind, t.input)
}

// SyntaxError reports one problem at a column of the statement
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d: %s", e.Pos, e.Msg)
}

// Unwrap allows errors.Is(err, ErrSyntax)
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

func syntaxError(pos int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// lex splits the query into tokens. Lexing continues past bad input so that
// every problem is reported at once.
func lex(query string) ([]token, error) {
	var (
		tokens []token
		errs   = &errors.M{}
		runes  = []rune(query)
	)

	for i := 0; i < len(runes); {
		r := runes[i]
		start := i
		switch {
		case unicode.IsSpace(r):
			i++
		case r == ';':
			tokens = append(tokens, token{kind: tokSemicolon, text: ";", pos: start + 1, input: ";"})
			i++
		case r == '\'':
			i++
			for i < len(runes) && runes[i] != '\'' {
				i++
			}
			if i == len(runes) {
				errs.Append(syntaxError(start+1, "unterminated string literal"))
				continue
			}
			i++
			raw := string(runes[start:i])
			tokens = append(tokens, token{kind: tokString, text: raw[1 : len(raw)-1], pos: start + 1, input: raw})
		case unicode.IsDigit(r) || r == '-':
			kind := tokNumber
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '/' || runes[i] == '-') {
				if runes[i] == '/' || runes[i] == '-' {
					kind = tokDate
				}
				i++
			}
			raw := string(runes[start:i])
			tokens = append(tokens, token{kind: kind, text: raw, pos: start + 1, input: raw})
		case unicode.IsLetter(r) || r == '_':
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			raw := string(runes[start:i])
			tokens = append(tokens, token{kind: tokIdent, text: strings.ToLower(raw), pos: start + 1, input: raw})
		default:
			errs.Append(syntaxError(start+1, "unexpected character %q", r))
			i++
		}
	}

	tokens = append(tokens, token{kind: tokEOF, pos: len(runes) + 1})
	return tokens, errs.Err()
}
