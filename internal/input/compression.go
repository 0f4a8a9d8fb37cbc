package input

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression is a stream compression format recognized by its magic bytes.
type Compression int

const (
	None Compression = iota
	Gzip
	Bzip2
	Xz
	Zstd
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case Xz:
		return "xz"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

var magics = []struct {
	typ   Compression
	magic []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Bzip2, []byte("BZh")},
	{Xz, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
}

// maxMagic is the longest magic sequence in magics.
const maxMagic = 6

// Detect identifies the compression of a stream from its first bytes.
func Detect(header []byte) Compression {
	for _, m := range magics {
		if bytes.HasPrefix(header, m.magic) {
			return m.typ
		}
	}
	return None
}

// Decompress peeks at r and wraps it in the matching decompressor. The
// returned closer releases decoder resources; it does not close r.
func Decompress(r io.Reader) (io.Reader, Compression, func(), error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(maxMagic)
	if err != nil && err != io.EOF {
		return nil, None, nil, fmt.Errorf("failed to read header: %w", err)
	}

	noop := func() {}
	typ := Detect(header)
	switch typ {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, typ, nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, typ, func() { _ = zr.Close() }, nil
	case Bzip2:
		return bzip2.NewReader(br), typ, noop, nil
	case Xz:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, typ, nil, fmt.Errorf("failed to open xz stream: %w", err)
		}
		return xr, typ, noop, nil
	case Zstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, typ, nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return dec, typ, dec.Close, nil
	default:
		return br, None, noop, nil
	}
}
