// Package decode implements percent-decoding of query string keys and values.
//
// Besides the %XX escapes, the plus sign is decoded into a space, as the form encoding
// does. A percent sign not followed by two hex digits is not an error: it is kept in
// the output as it is, and the result is marked as malformed so that stricter callers
// can reject it.
package decode

import (
	"errors"

	"github.com/indigo-web/querystring/internal/hexconv"
	"github.com/indigo-web/utils/uf"
)

var ErrMalformed = errors.New("malformed percent-encoded sequence")

// Decoded is either a view of the source bytes (nothing had to be decoded) or a freshly
// allocated buffer holding the decoded bytes.
type Decoded struct {
	data      []byte
	owned     bool
	malformed bool
}

// Decode decodes the src. If src contains neither '%' nor '+', the returned value
// points into src and no allocation happens.
func Decode(src []byte) Decoded {
	if special(src) == -1 {
		return Decoded{data: src}
	}

	decoded, _, modified, malformed := decode(nil, src)
	return Decoded{
		data:      decoded,
		owned:     modified,
		malformed: malformed,
	}
}

// Strict works just like Decode, except a malformed escape sequence results in ErrMalformed.
func Strict(src []byte) (Decoded, error) {
	d := Decode(src)
	if d.malformed {
		return d, ErrMalformed
	}

	return d, nil
}

// Append decodes src into dst. The decoded bytes are returned together with the grown dst.
// In case nothing had to be decoded, src itself is returned as decoded and dst is left
// untouched. dst can be src[:0] in order to decode in-place. A nil dst is allocated only
// when the first escape sequence is met.
func Append(dst, src []byte) (decoded, buffer []byte, malformed bool) {
	decoded, buffer, _, malformed = decode(dst, src)
	return decoded, buffer, malformed
}

func decode(dst, src []byte) (decoded, buffer []byte, modified, malformed bool) {
	head := len(dst)
	offset := 0

loop:
	for i := offset; i < len(src); i++ {
		switch src[i] {
		case '+':
			if dst == nil {
				dst = make([]byte, 0, len(src))
			}

			dst = append(dst, src[:i]...)
			dst = append(dst, ' ')
			src, offset, modified = src[i+1:], 0, true
			goto loop
		case '%':
			if len(src)-i < 3 {
				malformed = true
				continue
			}

			b, ok := hexconv.Pair(src[i+1], src[i+2])
			if !ok {
				malformed = true
				continue
			}

			if dst == nil {
				dst = make([]byte, 0, len(src))
			}

			dst = append(dst, src[:i]...)
			dst = append(dst, b)
			src, offset, modified = src[i+3:], 0, true
			goto loop
		}
	}

	if !modified {
		return src, dst, false, malformed
	}

	dst = append(dst, src...)
	return dst[head:], dst, true, malformed
}

func special(b []byte) int {
	for i, c := range b {
		if c == '%' || c == '+' {
			return i
		}
	}

	return -1
}

// Bytes returns the decoded bytes. They must not be modified if the value isn't owned.
func (d Decoded) Bytes() []byte {
	return d.data
}

// String returns a copy of the decoded bytes.
func (d Decoded) String() string {
	return string(d.data)
}

// View returns the decoded bytes as a string without copying. The string is valid only
// as long as the underlying bytes aren't modified.
func (d Decoded) View() string {
	return uf.B2S(d.data)
}

// Owned reports whether the bytes were copied out of the source.
func (d Decoded) Owned() bool {
	return d.owned
}

// Malformed reports whether the source contained a percent sign that didn't introduce a
// valid escape sequence.
func (d Decoded) Malformed() bool {
	return d.malformed
}

func (d Decoded) Len() int {
	return len(d.data)
}
