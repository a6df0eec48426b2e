// Package querystring deserializes URL query strings into Go values.
//
// Four conventions of encoding structured data into a query are supported, see Mode.
// Besides deserialization, the parsed queries can also be inspected directly via
// ParseUrlEncoded, ParseDuplicate, ParseDelimiter and ParseBrackets.
package querystring

import (
	"github.com/indigo-web/querystring/config"
	"github.com/indigo-web/querystring/de"
	"github.com/indigo-web/querystring/parsers"
)

type modeKind uint8

const (
	urlencoded modeKind = iota
	duplicate
	delimiter
	brackets
)

// Mode selects how repeated keys are combined and how keys and values are interpreted.
type Mode struct {
	kind      modeKind
	delimiter byte
}

var (
	// UrlEncoded keeps the last value of every key. Sequences have at most a single element.
	UrlEncoded = Mode{kind: urlencoded}
	// Duplicate keeps every value of every key, so a repeated key forms a sequence.
	Duplicate = Mode{kind: duplicate}
	// Brackets builds a tree out of keys like `user[address][city]`. Repeating `ids[]` forms
	// a sequence.
	Brackets = Mode{kind: brackets}
)

// Delimiter keeps the last value of every key. Values are split into sequences by the
// delimiter, as in `ids=1,2,3`.
func Delimiter(d byte) Mode {
	return Mode{kind: delimiter, delimiter: d}
}

func (m Mode) String() string {
	switch m.kind {
	case duplicate:
		return "duplicate"
	case delimiter:
		return "delimiter(" + string(m.delimiter) + ")"
	case brackets:
		return "brackets"
	default:
		return "urlencoded"
	}
}

type (
	Error       = de.Error
	Kind        = de.Kind
	Unmarshaler = de.Unmarshaler
	Enum        = de.Enum
)

// Unmarshal parses the data and deserializes it into v, which must be a pointer to a struct
// or a map.
func Unmarshal(data []byte, mode Mode, v any) error {
	return UnmarshalWith(config.Default(), data, mode, v)
}

// UnmarshalWith is the same as Unmarshal, but with custom configuration.
func UnmarshalWith(cfg *config.Config, data []byte, mode Mode, v any) error {
	return de.Unmarshal(NewDeserializer(cfg, data, mode), cfg, v)
}

// Deserialize is a generic version of Unmarshal.
func Deserialize[T any](data []byte, mode Mode) (T, error) {
	var value T
	err := Unmarshal(data, mode, &value)
	return value, err
}

// NewDeserializer parses the data and returns the deserializer of the whole query. It is
// handy for hand-written deserialization logic.
func NewDeserializer(cfg *config.Config, data []byte, mode Mode) de.Deserializer {
	switch mode.kind {
	case duplicate:
		return de.NewDuplicate(parsers.ParseDuplicate(data), cfg)
	case delimiter:
		return de.NewDelimiter(parsers.ParseDelimiter(data, mode.delimiter), cfg)
	case brackets:
		return de.NewBrackets(parsers.ParseBrackets(data), cfg)
	default:
		return de.NewUrlEncoded(parsers.ParseUrlEncoded(data), cfg)
	}
}

func ParseUrlEncoded(data []byte) *parsers.UrlEncodedQS {
	return parsers.ParseUrlEncoded(data)
}

func ParseDuplicate(data []byte) *parsers.DuplicateQS {
	return parsers.ParseDuplicate(data)
}

func ParseDelimiter(data []byte, delimiter byte) *parsers.DelimiterQS {
	return parsers.ParseDelimiter(data, delimiter)
}

func ParseBrackets(data []byte) *parsers.BracketsQS {
	return parsers.ParseBrackets(data)
}
