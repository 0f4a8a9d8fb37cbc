// Package input opens duration lists from files or stdin, transparently
// decompressing them, and splits them into one entry per line.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lucrnz/timeparse/internal/util"
)

// ErrInputTooLarge is returned once a source yields more than its limit.
var ErrInputTooLarge = errors.New("input exceeds maximum size")

// Source is an opened, decompressed input.
type Source struct {
	Name        string
	Size        int64 // size of the raw file, 0 when unknown
	Compression Compression

	r       io.Reader
	release func()
	file    *os.File
}

// Options configures how sources are read.
type Options struct {
	MaxBytes int64       // limit on decompressed bytes, 0 = unlimited
	Counter  func(int64) // called with the raw bytes consumed, may be nil
}

// Open opens path for reading. The name "-" reads stdin.
func Open(path string, stdin io.Reader, opts Options) (*Source, error) {
	if path == "-" {
		return NewSource("stdin", 0, stdin, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	var size int64
	if info, err := f.Stat(); err == nil && info.Mode().IsRegular() {
		size = info.Size()
	}
	src, err := NewSource(path, size, f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.file = f
	return src, nil
}

// NewSource wraps an already opened reader.
func NewSource(name string, size int64, r io.Reader, opts Options) (*Source, error) {
	if opts.Counter != nil {
		r = &countingReader{r: r, add: opts.Counter}
	}
	dr, typ, release, err := Decompress(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if opts.MaxBytes > 0 {
		dr = &limitReader{r: dr, remaining: opts.MaxBytes, limit: opts.MaxBytes}
	}
	return &Source{Name: name, Size: size, Compression: typ, r: dr, release: release}, nil
}

func (s *Source) Read(p []byte) (int, error) { return s.r.Read(p) }

// Close releases the decompressor and the underlying file, if any.
func (s *Source) Close() error {
	if s.release != nil {
		s.release()
		s.release = nil
	}
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

type countingReader struct {
	r   io.Reader
	add func(int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.add(int64(n))
	}
	return n, err
}

type limitReader struct {
	r         io.Reader
	remaining int64
	limit     int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, fmt.Errorf("%w of %s", ErrInputTooLarge, util.HumanReadableBytes(l.limit))
	}
	// Read one byte past the limit so an input of exactly limit bytes passes.
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		n += int(l.remaining)
		return n, fmt.Errorf("%w of %s", ErrInputTooLarge, util.HumanReadableBytes(l.limit))
	}
	return n, err
}
