package de

import (
	"errors"
	"fmt"
	"strings"

	"github.com/indigo-web/querystring/config"
	"github.com/indigo-web/querystring/decode"
	"github.com/indigo-web/querystring/number"
	"github.com/indigo-web/utils/uf"
)

// scalar presents a single value. It is also used for map keys, which are decoded
// while parsing already.
type scalar struct {
	cfg     *config.Config
	path    *path
	raw     []byte
	decoded bool
}

func (s scalar) bytes() ([]byte, error) {
	if s.decoded {
		return s.raw, nil
	}

	if s.cfg.Decoding.Strict {
		d, err := decode.Strict(s.raw)
		if err != nil {
			return nil, invalidEncoding(s.path, s.raw, err)
		}

		return d.Bytes(), nil
	}

	d := decode.Decode(s.raw)
	if d.Malformed() {
		logMalformed(s.cfg, s.path, "value", s.raw)
	}

	return d.Bytes(), nil
}

func (s scalar) fail(kind Kind, v Visitor, value []byte, cause error) error {
	return &Error{
		Kind:     kind,
		Key:      s.path.String(),
		Value:    string(value),
		HasValue: true,
		Expected: v.Expecting(),
		Err:      cause,
	}
}

func (s scalar) Path() string {
	return s.path.String()
}

func (s scalar) DeserializeAny(v Visitor) error {
	return s.DeserializeString(v)
}

func (s scalar) DeserializeBool(v Visitor) error {
	b, err := s.bytes()
	if err != nil {
		return err
	}

	value, err := number.ParseBool(b)
	if err != nil {
		return s.fail(InvalidBoolean, v, b, err)
	}

	return keyed(s.path, v.VisitBool(value))
}

func (s scalar) DeserializeInt(bits int, v Visitor) error {
	b, err := s.bytes()
	if err != nil {
		return err
	}

	value, err := number.ParseInt(b, bits)
	if err != nil {
		return s.fail(MalformedNumber, v, b, err)
	}

	return keyed(s.path, v.VisitInt(value))
}

func (s scalar) DeserializeUint(bits int, v Visitor) error {
	b, err := s.bytes()
	if err != nil {
		return err
	}

	value, err := number.ParseUint(b, bits)
	if err != nil {
		return s.fail(MalformedNumber, v, b, err)
	}

	return keyed(s.path, v.VisitUint(value))
}

func (s scalar) DeserializeFloat(bits int, v Visitor) error {
	b, err := s.bytes()
	if err != nil {
		return err
	}

	value, err := number.ParseFloat(b, bits)
	if err != nil {
		return s.fail(MalformedNumber, v, b, err)
	}

	return keyed(s.path, v.VisitFloat(value))
}

func (s scalar) DeserializeString(v Visitor) error {
	b, err := s.bytes()
	if err != nil {
		return err
	}

	return keyed(s.path, v.VisitString(string(b)))
}

func (s scalar) DeserializeBytes(v Visitor) error {
	b, err := s.bytes()
	if err != nil {
		return err
	}

	return keyed(s.path, v.VisitBytes(b))
}

func (s scalar) DeserializeOption(v Visitor) error {
	if len(s.raw) == 0 {
		return s.fail(UnexpectedEmptyValue, v, nil, errEmptyOption)
	}

	return keyed(s.path, v.VisitSome(s))
}

func (s scalar) DeserializeSeq(v Visitor) error {
	return mismatch(s.path, v, "single value")
}

func (s scalar) DeserializeTuple(_ int, v Visitor) error {
	return mismatch(s.path, v, "single value")
}

func (s scalar) DeserializeMap(v Visitor) error {
	return mismatch(s.path, v, "single value")
}

func (s scalar) DeserializeStruct(_ []string, v Visitor) error {
	return mismatch(s.path, v, "single value")
}

func (s scalar) DeserializeEnum(variants []string, v Visitor) error {
	b, err := s.bytes()
	if err != nil {
		return err
	}

	name := uf.B2S(b)
	for i, variant := range variants {
		if variant == name {
			return keyed(s.path, v.VisitEnum(i, variant))
		}
	}

	return s.fail(InvalidEnumVariant, v, b, fmt.Errorf("must be one of: %s", strings.Join(variants, ", ")))
}

var errEmptyOption = errors.New("empty value is ambiguous with an absent one, omit the key instead")

func mismatch(p *path, v Visitor, got string) error {
	return &Error{
		Kind:     TypeMismatch,
		Key:      p.String(),
		Expected: v.Expecting(),
		Err:      unexpected(got),
	}
}

func invalidEncoding(p *path, raw []byte, cause error) error {
	return &Error{
		Kind:     InvalidEncoding,
		Key:      p.String(),
		Value:    string(raw),
		HasValue: true,
		Err:      cause,
	}
}

func logMalformed(cfg *config.Config, p *path, what string, raw []byte) {
	if cfg.Logger != nil {
		cfg.Logger.Printf("querystring: %s of %q has a malformed escape sequence, kept as-is: %q", what, p.String(), raw)
	}
}

// failing fails every request. It stands in for values which can't be presented at all.
type failing struct {
	path *path
	err  error
}

func (f failing) Path() string { return f.path.String() }
func (f failing) DeserializeAny(Visitor) error { return f.err }
func (f failing) DeserializeBool(Visitor) error { return f.err }
func (f failing) DeserializeInt(int, Visitor) error { return f.err }
func (f failing) DeserializeUint(int, Visitor) error { return f.err }
func (f failing) DeserializeFloat(int, Visitor) error { return f.err }
func (f failing) DeserializeString(Visitor) error { return f.err }
func (f failing) DeserializeBytes(Visitor) error { return f.err }
func (f failing) DeserializeOption(Visitor) error { return f.err }
func (f failing) DeserializeSeq(Visitor) error { return f.err }
func (f failing) DeserializeTuple(int, Visitor) error { return f.err }
func (f failing) DeserializeMap(Visitor) error { return f.err }
func (f failing) DeserializeStruct([]string, Visitor) error { return f.err }
func (f failing) DeserializeEnum([]string, Visitor) error { return f.err }

// checkKey stands a failing deserializer in for the value, if its key has a malformed
// escape sequence and decoding is strict. rawKey is nil for well-formed keys.
func checkKey(cfg *config.Config, p *path, rawKey []byte, d Deserializer) Deserializer {
	if rawKey == nil {
		return d
	}

	if cfg.Decoding.Strict {
		return failing{path: p, err: invalidEncoding(p, rawKey, decode.ErrMalformed)}
	}

	logMalformed(cfg, p, "key", rawKey)
	return d
}
