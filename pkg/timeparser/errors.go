package timeparser

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by Parse, ParseSeconds and Duration
// unmarshalling wraps exactly one of them.
var (
	ErrEmptyInput                = errors.New("input must not be empty or whitespace only")
	ErrNonASCII                  = errors.New("invalid non-ASCII character")
	ErrControlCharacter          = errors.New("invalid control character")
	ErrUnexpectedLetter          = errors.New("unexpected letter")
	ErrUnsupportedUnit           = errors.New("unsupported unit")
	ErrDuplicateDecimalSeparator = errors.New("duplicated decimal separator")
	ErrInvalidCharacter          = errors.New("invalid character")
	ErrUnexpectedEndOfInput      = errors.New("input ended unexpectedly")
	ErrOutOfRange                = errors.New("value out of range")
	ErrInvalidDecimalSeparator   = errors.New("unusable decimal separator")
)

// ParseError describes why an input could not be parsed.
type ParseError struct {
	Kind     error  // one of the Err* values
	Input    string // the complete input
	Position int    // 1-based character position, 0 when not tied to a character
	Char     rune   // offending character, 0 when not tied to a character
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("timeparser: ")
	b.WriteString(e.Kind.Error())
	if e.Input != "" || e.Kind == ErrEmptyInput {
		fmt.Fprintf(&b, " in %q", e.Input)
	}
	if e.Position > 0 {
		fmt.Fprintf(&b, " at position %d", e.Position)
	}
	switch {
	case e.Kind == ErrControlCharacter:
		fmt.Fprintf(&b, " (%U)", e.Char)
	case e.Char != 0:
		fmt.Fprintf(&b, ": %q", e.Char)
	}
	if e.Kind == ErrUnsupportedUnit {
		b.WriteString(", supported units: ")
		b.WriteString(supportedUnits())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Kind }
