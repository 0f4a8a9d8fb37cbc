package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// maxLine bounds a single line; durations are short.
const maxLine = 1 << 20

// Entry is one duration read from a source.
type Entry struct {
	Source string
	Line   int // 1-based, 0 for command-line arguments
	Text   string
}

func (e Entry) String() string {
	if e.Line == 0 {
		return e.Source
	}
	return fmt.Sprintf("%s:%d", e.Source, e.Line)
}

// Scan calls fn for every line of r that is neither blank nor a '#' comment.
// It stops at the first error returned by fn, by the reader or by ctx.
func Scan(ctx context.Context, r io.Reader, source string, fn func(Entry) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	line := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if err := fn(Entry{Source: source, Line: line, Text: text}); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: read error: %w", source, err)
	}
	return nil
}
