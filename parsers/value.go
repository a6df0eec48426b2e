// Package parsers turns a raw query string into one of the four parsed structures, each
// implementing its own convention of combining repeated keys and interpreting values.
//
// Keys are decoded while parsing. Values are kept as they are found in the query and are
// decoded on every read.
package parsers

import (
	"bytes"

	"github.com/indigo-web/querystring/decode"
	"github.com/indigo-web/querystring/scan"
)

// Value is a raw, still percent-encoded value. HasValue is false when the pair had no
// equality sign at all, which is otherwise treated just like an empty value.
type Value struct {
	Raw      []byte
	HasValue bool
}

func valueOf(pair scan.Pair) Value {
	return Value{Raw: pair.Value, HasValue: pair.HasValue}
}

// Decode decodes the value.
func (v Value) Decode() decode.Decoded {
	return decode.Decode(v.Raw)
}

// Empty reports whether there's nothing in the value.
func (v Value) Empty() bool {
	return len(v.Raw) == 0
}

// Split splits the raw value by the delimiter. Splitting happens before decoding, so an
// encoded delimiter is never treated as one. Just like bytes.Split, an empty value results
// in a single empty element.
func (v Value) Split(delimiter byte) []Value {
	return v.SplitN(delimiter, -1)
}

// SplitN is the same as Split, except the number of parts is limited to n, the last one
// holding the unsplit remainder. n < 0 means no limit.
func (v Value) SplitN(delimiter byte, n int) []Value {
	raws := bytes.SplitN(v.Raw, []byte{delimiter}, n)
	values := make([]Value, len(raws))
	for i, raw := range raws {
		values[i] = Value{Raw: raw, HasValue: true}
	}

	return values
}

// decodeAll decodes the values into a single shared buffer, allocated by the first value
// which needs decoding at all.
func decodeAll(values []Value) [][]byte {
	if len(values) == 0 {
		return nil
	}

	var buff []byte
	decoded := make([][]byte, len(values))
	for i, v := range values {
		d, grown, _ := decode.Append(buff, v.Raw)
		decoded[i], buff = d[:len(d):len(d)], grown
	}

	return decoded
}
