package de

import (
	"fmt"

	"github.com/indigo-web/querystring/config"
	"github.com/indigo-web/querystring/parsers"
	"github.com/indigo-web/utils/uf"
)

type flatMode uint8

const (
	urlencoded flatMode = iota
	duplicate
	delimited
)

type flatSource interface {
	Len() int
	EntryAt(i int) (key string, entry parsers.Entry)
}

func NewUrlEncoded(qs *parsers.UrlEncodedQS, cfg *config.Config) Deserializer {
	return flatRoot{cfg: cfg, source: qs, mode: urlencoded}
}

func NewDuplicate(qs *parsers.DuplicateQS, cfg *config.Config) Deserializer {
	return flatRoot{cfg: cfg, source: qs, mode: duplicate}
}

func NewDelimiter(qs *parsers.DelimiterQS, cfg *config.Config) Deserializer {
	return flatRoot{cfg: cfg, source: qs, mode: delimited, delimiter: qs.Delimiter()}
}

// flatRoot presents the whole query as a map of keys to values. Nothing but maps and
// structs can be deserialized from it.
type flatRoot struct {
	cfg       *config.Config
	source    flatSource
	mode      flatMode
	delimiter byte
}

func (f flatRoot) Path() string {
	return ""
}

func (f flatRoot) visitMap(v Visitor) error {
	return keyed(nil, v.VisitMap(&flatMap{root: f}))
}

func (f flatRoot) DeserializeAny(v Visitor) error { return f.visitMap(v) }
func (f flatRoot) DeserializeMap(v Visitor) error { return f.visitMap(v) }
func (f flatRoot) DeserializeStruct(_ []string, v Visitor) error { return f.visitMap(v) }
func (f flatRoot) DeserializeOption(v Visitor) error { return v.VisitSome(f) }

func (f flatRoot) DeserializeBool(v Visitor) error { return mismatch(nil, v, "query") }
func (f flatRoot) DeserializeInt(_ int, v Visitor) error { return mismatch(nil, v, "query") }
func (f flatRoot) DeserializeUint(_ int, v Visitor) error { return mismatch(nil, v, "query") }
func (f flatRoot) DeserializeFloat(_ int, v Visitor) error { return mismatch(nil, v, "query") }
func (f flatRoot) DeserializeString(v Visitor) error { return mismatch(nil, v, "query") }
func (f flatRoot) DeserializeBytes(v Visitor) error { return mismatch(nil, v, "query") }
func (f flatRoot) DeserializeSeq(v Visitor) error { return mismatch(nil, v, "query") }
func (f flatRoot) DeserializeTuple(_ int, v Visitor) error { return mismatch(nil, v, "query") }
func (f flatRoot) DeserializeEnum(_ []string, v Visitor) error { return mismatch(nil, v, "query") }

type flatMap struct {
	root  flatRoot
	next  int
	path  *path
	entry parsers.Entry
}

func (m *flatMap) NextKey() (Deserializer, bool) {
	if m.next >= m.root.source.Len() {
		return nil, false
	}

	var key string
	key, m.entry = m.root.source.EntryAt(m.next)
	m.next++
	m.path = &path{name: key}

	return scalar{cfg: m.root.cfg, path: m.path, raw: uf.S2B(key), decoded: true}, true
}

func (m *flatMap) Value() Deserializer {
	value := flatValue{
		cfg:       m.root.cfg,
		path:      m.path,
		mode:      m.root.mode,
		delimiter: m.root.delimiter,
		values:    m.entry.Values,
	}

	return checkKey(m.root.cfg, m.path, m.entry.RawKey, value)
}

func (m *flatMap) SizeHint() (int, bool) {
	return m.root.source.Len() - m.next, true
}

// flatValue presents all the values found by a single key. How they form a sequence
// depends on the mode. Whenever a single value is requested, the last one is used.
type flatValue struct {
	cfg       *config.Config
	path      *path
	mode      flatMode
	delimiter byte
	values    []parsers.Value
}

func (f flatValue) last() scalar {
	return scalar{cfg: f.cfg, path: f.path, raw: f.values[len(f.values)-1].Raw}
}

// elements returns the values forming a sequence. n limits the number of elements split
// from a delimited value, the last one holding the rest. n < 0 means no limit.
func (f flatValue) elements(n int) []parsers.Value {
	switch f.mode {
	case duplicate:
		return f.values
	case delimited:
		last := f.values[len(f.values)-1]
		if last.Empty() {
			return nil
		}

		return last.SplitN(f.delimiter, n)
	default:
		return f.values[len(f.values)-1:]
	}
}

func (f flatValue) Path() string {
	return f.path.String()
}

func (f flatValue) DeserializeAny(v Visitor) error {
	if f.mode == duplicate && len(f.values) > 1 {
		return keyed(f.path, v.VisitSeq(newValueSeq(f.cfg, f.path, f.values)))
	}

	return f.last().DeserializeAny(v)
}

func (f flatValue) DeserializeBool(v Visitor) error { return f.last().DeserializeBool(v) }
func (f flatValue) DeserializeInt(bits int, v Visitor) error { return f.last().DeserializeInt(bits, v) }
func (f flatValue) DeserializeUint(bits int, v Visitor) error {
	return f.last().DeserializeUint(bits, v)
}
func (f flatValue) DeserializeFloat(bits int, v Visitor) error {
	return f.last().DeserializeFloat(bits, v)
}
func (f flatValue) DeserializeString(v Visitor) error { return f.last().DeserializeString(v) }
func (f flatValue) DeserializeBytes(v Visitor) error { return f.last().DeserializeBytes(v) }
func (f flatValue) DeserializeEnum(variants []string, v Visitor) error {
	return f.last().DeserializeEnum(variants, v)
}

func (f flatValue) DeserializeOption(v Visitor) error {
	if f.values[len(f.values)-1].Empty() {
		return f.last().fail(UnexpectedEmptyValue, v, nil, errEmptyOption)
	}

	return keyed(f.path, v.VisitSome(f))
}

func (f flatValue) DeserializeSeq(v Visitor) error {
	return keyed(f.path, v.VisitSeq(newValueSeq(f.cfg, f.path, f.elements(-1))))
}

func (f flatValue) DeserializeTuple(n int, v Visitor) error {
	elements := f.elements(n)
	if len(elements) != n {
		return lengthMismatch(f.path, v, n, len(elements))
	}

	return keyed(f.path, v.VisitSeq(newValueSeq(f.cfg, f.path, elements)))
}

func (f flatValue) DeserializeMap(v Visitor) error {
	return mismatch(f.path, v, "flat value")
}

func (f flatValue) DeserializeStruct(_ []string, v Visitor) error {
	return mismatch(f.path, v, "flat value")
}

// valueSeq presents raw values as sequence elements.
type valueSeq struct {
	cfg    *config.Config
	path   *path
	values []parsers.Value
	next   int
}

func newValueSeq(cfg *config.Config, p *path, values []parsers.Value) *valueSeq {
	return &valueSeq{cfg: cfg, path: p, values: values}
}

func (s *valueSeq) NextElement() (Deserializer, bool) {
	if s.next >= len(s.values) {
		return nil, false
	}

	element := scalar{cfg: s.cfg, path: s.path.element(s.next), raw: s.values[s.next].Raw}
	s.next++

	return element, true
}

func (s *valueSeq) SizeHint() (int, bool) {
	return len(s.values) - s.next, true
}

func lengthMismatch(p *path, v Visitor, want, got int) error {
	return &Error{
		Kind:     InvalidLength,
		Key:      p.String(),
		Expected: v.Expecting(),
		Err:      fmt.Errorf("expected %d elements, got %d", want, got),
	}
}
