// Kunhua Huang 2026

package protocol

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

const (
	DefaultPort       = 9602
	DefaultBacklog    = 5
	DefaultBufferSize = 256
	DefaultMessage    = "Message from server"
)

// NewMessage returns a size-byte buffer holding text followed by zero padding.
func NewMessage(text string, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", size)
	}
	if len(text) > size {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(text), size)
	}

	buf := make([]byte, size)
	copy(buf, text)
	return buf, nil
}

// Text interprets the first n bytes of buf as a NUL-terminated string.
// It never reads past n, so a short receive cannot expose stale buffer bytes.
func Text(buf []byte, n int) string {
	if n < 0 {
		n = 0
	}
	if n > len(buf) {
		n = len(buf)
	}

	data := buf[:n]
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}

	if !utf8.Valid(data) {
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}
	return string(data)
}

// IsPaddedPrefix reports whether data is a prefix of text followed only by
// zero bytes, and no longer than size.
func IsPaddedPrefix(data []byte, text string, size int) bool {
	if len(data) > size {
		return false
	}

	i := 0
	for ; i < len(data) && i < len(text); i++ {
		if data[i] != text[i] {
			return false
		}
	}
	for ; i < len(data); i++ {
		if data[i] != 0 {
			return false
		}
	}
	return true
}
