package core

// streaming.go prepares the raw export stream for encoding/csv.
//
// Windows exports ("CSV UTF-8" in Excel) start with a UTF-8 byte order mark,
// which would otherwise end up glued to the first header name and make
// "Created Date" look missing. The byte counter feeds the load summary log.

import (
	"bufio"
	"bytes"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// SkipBOM returns a reader positioned after a leading UTF-8 BOM, if any.
// Input without a BOM is passed through untouched.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// WrapForParsing counts the raw bytes and strips the BOM. The counter sits
// below the BOM skipper so BytesRead reflects the file size.
func WrapForParsing(r io.Reader) (io.Reader, *CountingReader) {
	counter := NewCountingReader(r)
	return SkipBOM(counter), counter
}
