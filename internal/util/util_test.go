package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseByteSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want int64
	}{
		{in: "", want: 0},
		{in: "0", want: 0},
		{in: "4096", want: 4096},
		{in: "16MiB", want: 16 << 20},
		{in: "512MB", want: 512_000_000},
		{in: " 1 KiB ", want: 1024},
	}
	for _, tt := range tests {
		got, err := ParseByteSize(tt.in)
		require.NoError(t, err, "ParseByteSize(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseByteSize(%q)", tt.in)
	}

	_, err := ParseByteSize("lots")
	assert.Error(t, err)
}

func TestHumanReadableBytes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "16 MiB", HumanReadableBytes(16<<20))
	assert.Equal(t, "0 B", HumanReadableBytes(-5))
}

func TestFormatCompact(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1d1h1m1s", FormatCompact(90061*time.Second))
	assert.Equal(t, "1w2d", FormatCompact(9*24*time.Hour))
	assert.Equal(t, "1s500ms", FormatCompact(1500*time.Millisecond))
}
