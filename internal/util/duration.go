package util

import (
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// FormatCompact renders d without separators using weeks and days as the
// largest units, e.g. "1w2d3h" or "1d1h1m1s500ms".
func FormatCompact(d time.Duration) string {
	return str2duration.String(d)
}
