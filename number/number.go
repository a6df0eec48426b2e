// Package number parses decoded query values into numbers and booleans.
//
// The accepted grammar is strict: no leading plus sign, no surrounding whitespace, no
// hexadecimal or underscores, no special float values. Integers never wrap or saturate:
// a value that doesn't fit the requested width is reported as an overflow.
package number

import (
	"errors"
	"math"
	"strconv"

	"github.com/indigo-web/utils/uf"
)

var (
	ErrSyntax   = errors.New("invalid number syntax")
	ErrOverflow = errors.New("number out of range")
	ErrBool     = errors.New("invalid boolean")
)

// Error carries the input which failed to parse.
type Error struct {
	Err   error
	Input string
}

func newError(err error, input []byte) *Error {
	return &Error{Err: err, Input: string(input)}
}

func (e *Error) Error() string {
	return e.Err.Error() + ": " + strconv.Quote(e.Input)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ParseUint parses an unsigned integer fitting into bits (8, 16, 32 or 64).
func ParseUint(b []byte, bits int) (uint64, error) {
	if len(b) == 0 {
		return 0, newError(ErrSyntax, b)
	}

	limit := uint64(math.MaxUint64) >> (64 - bits)

	var num uint64
	for _, char := range b {
		char -= '0'
		if char > 9 {
			return 0, newError(ErrSyntax, b)
		}

		if num > (limit-uint64(char))/10 {
			// garbage after an overlong number is still a syntax error
			if !digits(b) {
				return 0, newError(ErrSyntax, b)
			}

			return 0, newError(ErrOverflow, b)
		}

		num = num*10 + uint64(char)
	}

	return num, nil
}

// ParseInt parses a signed integer fitting into bits (8, 16, 32 or 64).
func ParseInt(b []byte, bits int) (int64, error) {
	negative := len(b) > 0 && b[0] == '-'
	digitsPart := b
	if negative {
		digitsPart = b[1:]
	}

	// the magnitude of the minimal value is one greater than the maximal one
	limit := uint64(1)<<(bits-1) - 1
	if negative {
		limit++
	}

	num, err := ParseUint(digitsPart, 64)
	if err != nil {
		var nerr *Error
		if errors.As(err, &nerr) {
			nerr.Input = string(b)
		}

		return 0, err
	}

	if num > limit {
		return 0, newError(ErrOverflow, b)
	}

	if negative {
		return -int64(num), nil
	}

	return int64(num), nil
}

// ParseFloat parses a decimal float in either plain or scientific notation. A value whose
// magnitude is too large for bits is an overflow. Values too small to be represented
// round towards zero.
func ParseFloat(b []byte, bits int) (float64, error) {
	if !isFloat(b) {
		return 0, newError(ErrSyntax, b)
	}

	f, err := strconv.ParseFloat(uf.B2S(b), bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
			return 0, newError(ErrOverflow, b)
		}

		return 0, newError(ErrSyntax, b)
	}

	return f, nil
}

// ParseBool accepts 1, on and true as true; 0, off and false as false. An empty value is a
// set flag, therefore true.
func ParseBool(b []byte) (bool, error) {
	switch uf.B2S(b) {
	case "", "1", "on", "true":
		return true, nil
	case "0", "off", "false":
		return false, nil
	default:
		return false, newError(ErrBool, b)
	}
}

func digits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}

	return len(b) > 0
}

// isFloat matches -?D+(.D+)?([eE][+-]?D+)?
func isFloat(b []byte) bool {
	if len(b) > 0 && b[0] == '-' {
		b = b[1:]
	}

	n := leadingDigits(b)
	if n == 0 {
		return false
	}

	b = b[n:]
	if len(b) > 0 && b[0] == '.' {
		n = leadingDigits(b[1:])
		if n == 0 {
			return false
		}

		b = b[1+n:]
	}

	if len(b) > 0 && (b[0] == 'e' || b[0] == 'E') {
		b = b[1:]
		if len(b) > 0 && (b[0] == '+' || b[0] == '-') {
			b = b[1:]
		}

		n = leadingDigits(b)
		if n == 0 {
			return false
		}

		b = b[n:]
	}

	return len(b) == 0
}

func leadingDigits(b []byte) int {
	for i, c := range b {
		if c < '0' || c > '9' {
			return i
		}
	}

	return len(b)
}
