package csvcodec

// sanitize.go provides streaming readers that clean CSV input before decoding.
//
// Spreadsheet exports regularly start with a UTF-8 byte order mark, which
// would otherwise end up glued to the first header name ("\ufeffname"), and
// legacy encodings leave bytes that are not valid UTF-8. Sanitize wraps a
// reader so both are handled in O(buffer) memory.

import (
	"io"
	"unicode/utf8"
)

// Sanitize wraps r so the UTF-8 BOM is skipped and invalid UTF-8 bytes are
// replaced with '?'.
func Sanitize(r io.Reader) io.Reader {
	return newUTF8Sanitizer(newBOMSkipper(r))
}

// utf8Sanitizer replaces invalid UTF-8 bytes on the fly.
type utf8Sanitizer struct {
	reader io.Reader

	// Leftover bytes from the previous read that may start a multi-byte sequence.
	pending []byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.reader.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	if isASCII(p[:n]) {
		return n, err
	}

	return s.sanitize(p[:n], err == io.EOF), err
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to keep.
// Unless atEOF, an incomplete sequence at the end is held back for the next read.
// Invalid bytes become '?' rather than U+FFFD so the output never grows.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		if !atEOF && !utf8.FullRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}

		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// bomSkipper drops a leading UTF-8 BOM (EF BB BF).
type bomSkipper struct {
	reader  io.Reader
	checked bool
	buf     [3]byte
	head    []byte
}

func newBOMSkipper(r io.Reader) *bomSkipper {
	return &bomSkipper{reader: r}
}

func (r *bomSkipper) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if n == 3 && r.buf[0] == 0xEF && r.buf[1] == 0xBB && r.buf[2] == 0xBF {
			n = 0
		}
		r.head = r.buf[:n]
		if err != nil && len(r.head) == 0 {
			return 0, err
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if err == io.EOF {
			copied := copy(p, r.head)
			r.head = r.head[copied:]
			if len(r.head) > 0 {
				return copied, nil
			}
			return copied, io.EOF
		}
	}

	if len(r.head) > 0 {
		copied := copy(p, r.head)
		r.head = r.head[copied:]
		return copied, nil
	}
	return r.reader.Read(p)
}

// CountingReader tracks the number of bytes read through it.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}
