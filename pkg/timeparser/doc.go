// Package timeparser converts human-written durations such as "1d 1h 1m 1s" or
// "1.5275d 0.275235h 30m 0s" into time.Duration values.
//
// A duration is a sequence of segments, each a non-negative number followed by
// one unit letter:
//
//	d  day (86400s)
//	h  hour (3600s)
//	m  minute (60s)
//	s  second
//
// Segments may appear in any order and may repeat. Whitespace, including line
// breaks, is ignored everywhere, even between the digits of a number.
// Numbers may carry a fraction after the decimal separator, which defaults to
// '.' and can be changed per Parser.
//
// Errors returned by the parse functions are *ParseError values whose Kind is
// one of the Err* sentinels, so callers can classify them with errors.Is.
package timeparser
