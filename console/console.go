// Package console is the text-output service for wide strings.
//
// Guests hand it NUL-free UTF-16 code units; it transcodes them to UTF-8 and
// writes them to an io.Writer. Unpaired surrogates are shown as U+FFFD.
package console

import (
	"io"
	"sync"
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/wasm-libc/errors"
)

// Console writes wide strings to an underlying writer.
// It is safe for concurrent use.
type Console struct {
	w   io.Writer
	dec *encoding.Decoder
	buf []byte
	mu  sync.Mutex
}

// New returns a Console writing to w. A nil w discards output.
func New(w io.Writer) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{
		w:   w,
		dec: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(),
	}
}

// OutputString writes units as UTF-8.
func (c *Console) OutputString(units []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf = c.buf[:0]
	for _, u := range units {
		c.buf = append(c.buf, byte(u), byte(u>>8))
	}

	c.dec.Reset()
	out, err := c.dec.Bytes(c.buf)
	if err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindInvalidEncoding, err, "transcode utf-16 output")
	}
	if _, err := c.w.Write(out); err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "write console output")
	}
	return nil
}

// TestString reports whether every unit can be displayed, i.e. units holds
// no unpaired surrogates.
func (c *Console) TestString(units []uint16) bool {
	return Displayable(units)
}

// Displayable reports whether units holds no unpaired surrogates.
func Displayable(units []uint16) bool {
	for i := 0; i < len(units); i++ {
		u := units[i]
		if !utf16.IsSurrogate(rune(u)) {
			continue
		}
		if u >= 0xDC00 || i+1 >= len(units) {
			return false
		}
		next := units[i+1]
		if next < 0xDC00 || next > 0xDFFF {
			return false
		}
		i++
	}
	return true
}
