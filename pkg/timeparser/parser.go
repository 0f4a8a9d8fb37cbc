package timeparser

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// maxSeconds is the largest whole number of seconds a time.Duration holds.
const maxSeconds = float64(math.MaxInt64 / int64(time.Second))

// Parser converts duration strings into durations. The zero value is ready to
// use and behaves like Default.
type Parser struct {
	// DecimalSeparator separates the whole and fractional digits of a number.
	// Zero means '.'. Letters, digits, whitespace, control and non-ASCII
	// characters are rejected with ErrInvalidDecimalSeparator.
	DecimalSeparator rune

	// ExactFraction counts the fraction digits as typed. By default the
	// fraction is scaled by the magnitude of its integer value, which drops
	// leading zeros: "1.05s" is 1.5 seconds, not 1.05.
	ExactFraction bool
}

// Default parses with '.' as the decimal separator.
var Default = Parser{DecimalSeparator: '.'}

// Parse converts s into a duration using Default.
func Parse(s string) (time.Duration, error) { return Default.Parse(s) }

// ParseSeconds converts s into seconds using Default.
func ParseSeconds(s string) (float64, error) { return Default.ParseSeconds(s) }

// TryParse reports whether s is a valid duration using Default.
func TryParse(s string) (time.Duration, bool) { return Default.TryParse(s) }

// Parse converts s into a duration rounded to the nanosecond.
func (p Parser) Parse(s string) (time.Duration, error) {
	secs, err := p.ParseSeconds(s)
	if err != nil {
		return 0, err
	}
	if secs > maxSeconds {
		return 0, &ParseError{Kind: ErrOutOfRange, Input: s}
	}
	return time.Duration(math.Round(secs * float64(time.Second))), nil
}

// TryParse is Parse without the failure reason. The duration is zero when ok
// is false.
func (p Parser) TryParse(s string) (d time.Duration, ok bool) {
	d, err := p.Parse(s)
	if err != nil {
		return 0, false
	}
	return d, true
}

// Validate reports whether p can parse anything at all.
func (p Parser) Validate() error {
	if sep := p.separator(); !usableSeparator(sep) {
		return &ParseError{Kind: ErrInvalidDecimalSeparator, Char: sep}
	}
	return nil
}

// ParseSeconds scans s once, left to right, and returns the total in seconds.
func (p Parser) ParseSeconds(s string) (float64, error) {
	sep := p.separator()
	if !usableSeparator(sep) {
		return 0, &ParseError{Kind: ErrInvalidDecimalSeparator, Input: s, Char: sep}
	}
	if strings.TrimSpace(s) == "" {
		return 0, &ParseError{Kind: ErrEmptyInput, Input: s}
	}

	var (
		total    float64
		seg      segment
		position int
	)
	fail := func(kind error, c rune) (float64, error) {
		return 0, &ParseError{Kind: kind, Input: s, Position: position, Char: c}
	}

	// The order of the cases matters: whitespace wins over everything, and
	// the range checks must run before the letter and digit tests.
	for _, c := range s {
		position++
		switch {
		case unicode.IsSpace(c):
			continue
		case c > unicode.MaxASCII:
			return fail(ErrNonASCII, c)
		case c < 0x20:
			return fail(ErrControlCharacter, c)
		case isLetter(c):
			if !seg.hasWhole {
				return fail(ErrUnexpectedLetter, c)
			}
			multiplier, ok := lookupUnit(c)
			if !ok {
				return fail(ErrUnsupportedUnit, c)
			}
			total += seg.value(p.ExactFraction) * float64(multiplier)
			seg = segment{}
		case '0' <= c && c <= '9':
			if !seg.push(uint64(c - '0')) {
				return fail(ErrOutOfRange, c)
			}
		case c == sep:
			if seg.hasFrac {
				return fail(ErrDuplicateDecimalSeparator, c)
			}
			seg.hasFrac = true
		default:
			return fail(ErrInvalidCharacter, c)
		}
	}
	if seg.open() {
		return 0, &ParseError{Kind: ErrUnexpectedEndOfInput, Input: s}
	}
	return total, nil
}

func (p Parser) separator() rune {
	if p.DecimalSeparator == 0 {
		return '.'
	}
	return p.DecimalSeparator
}

// usableSeparator reports whether the scanner can ever reach r as a separator.
func usableSeparator(r rune) bool {
	return r > ' ' && r < unicode.MaxASCII && !isLetter(r) && !('0' <= r && r <= '9')
}

func isLetter(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// segment accumulates the number in front of the next unit letter.
type segment struct {
	whole      uint64
	frac       uint64
	fracDigits int
	hasWhole   bool
	hasFrac    bool
}

func (g *segment) open() bool { return g.hasWhole || g.hasFrac }

// push appends one digit to the fraction once a separator was seen, to the
// whole part otherwise. It reports false on overflow.
func (g *segment) push(digit uint64) bool {
	if g.hasFrac {
		if g.frac > (math.MaxUint64-digit)/10 {
			return false
		}
		g.frac = g.frac*10 + digit
		g.fracDigits++
		return true
	}
	if g.whole > (math.MaxUint64-digit)/10 {
		return false
	}
	g.whole = g.whole*10 + digit
	g.hasWhole = true
	return true
}

func (g *segment) value(exact bool) float64 {
	v := float64(g.whole)
	if !g.hasFrac {
		return v
	}
	digits := g.fracDigits
	if !exact {
		digits = digitCount(g.frac)
	}
	return v + float64(g.frac)/math.Pow10(digits)
}

// digitCount returns the number of decimal digits of v; zero has one digit.
func digitCount(v uint64) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}
