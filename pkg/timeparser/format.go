package timeparser

import (
	"strconv"
	"strings"
	"time"
)

// Format renders d in the form Parse accepts, largest unit first, for
// example "1d 1h 1m 1.5s". Zero components are left out and a zero duration
// is "0s". Negative durations get a leading '-', which Parse rejects.
//
// Fractional seconds are written with '.' and all significant digits. A
// fraction starting with zero, such as "1.05s", only reads back unchanged with
// a Parser that has ExactFraction set.
func Format(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	var b strings.Builder
	u := uint64(d)
	if d < 0 {
		b.WriteByte('-')
		u = -u
	}

	for _, un := range units[:len(units)-1] {
		per := uint64(un.seconds) * uint64(time.Second)
		if n := u / per; n > 0 {
			b.WriteString(strconv.FormatUint(n, 10))
			b.WriteRune(un.letter)
			b.WriteByte(' ')
			u -= n * per
		}
	}
	if u > 0 {
		b.WriteString(strconv.FormatUint(u/uint64(time.Second), 10))
		if ns := u % uint64(time.Second); ns > 0 {
			frac := strconv.FormatUint(ns+uint64(time.Second), 10)[1:]
			b.WriteByte('.')
			b.WriteString(strings.TrimRight(frac, "0"))
		}
		b.WriteByte('s')
	}
	return strings.TrimSuffix(b.String(), " ")
}
