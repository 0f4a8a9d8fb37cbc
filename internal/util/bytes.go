package util

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseByteSize parses sizes such as "16MiB", "512MB" or "4096" into bytes.
// Zero means unlimited.
func ParseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("byte size %q is too large", s)
	}
	return int64(n), nil
}

// HumanReadableBytes formats n using IEC units, e.g. "16 MiB".
func HumanReadableBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
