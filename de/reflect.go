package de

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/indigo-web/querystring/config"
	"github.com/indigo-web/querystring/internal/flect"
)

var (
	unmarshalerType     = reflect.TypeFor[Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	enumType            = reflect.TypeFor[Enum]()
)

// Unmarshal deserializes into v, which must be a non-nil pointer to a struct, a map, an
// empty interface or a type implementing Unmarshaler.
func Unmarshal(d Deserializer, cfg *config.Config, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &Error{Kind: TypeMismatch, Expected: "non-nil pointer", Err: fmt.Errorf("got %T", v)}
	}

	if !rootable(rv.Type().Elem()) {
		return &Error{Kind: TypeMismatch, Expected: "struct or map", Err: fmt.Errorf("got %s", rv.Type().Elem())}
	}

	return decoder{cfg: cfg}.decode(d, rv.Elem())
}

func rootable(typ reflect.Type) bool {
	if reflect.PointerTo(typ).Implements(unmarshalerType) {
		return true
	}

	switch typ.Kind() {
	case reflect.Pointer:
		return rootable(typ.Elem())
	case reflect.Struct, reflect.Map:
		return true
	case reflect.Interface:
		return typ.NumMethod() == 0
	default:
		return false
	}
}

// decoder is the visiting side, building Go values out of what the deserializers present.
type decoder struct {
	cfg *config.Config
}

func (dec decoder) decode(d Deserializer, v reflect.Value) error {
	typ := v.Type()
	base := BaseVisitor{Expected: typ.String()}

	if typ.Kind() != reflect.Pointer && v.CanAddr() {
		switch u := v.Addr().Interface().(type) {
		case Unmarshaler:
			if err := u.UnmarshalQuery(d); err != nil {
				return withKey(d.Path(), err)
			}

			return nil
		case encoding.TextUnmarshaler:
			return d.DeserializeBytes(textVisitor{base, u})
		}
	}

	if variants, ok := enumVariants(v); ok {
		return d.DeserializeEnum(variants, enumVisitor{base, v})
	}

	switch typ.Kind() {
	case reflect.Bool:
		return d.DeserializeBool(boolVisitor{base, v})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return d.DeserializeInt(typ.Bits(), intVisitor{base, v})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return d.DeserializeUint(typ.Bits(), uintVisitor{base, v})
	case reflect.Float32, reflect.Float64:
		return d.DeserializeFloat(typ.Bits(), floatVisitor{base, v})
	case reflect.String:
		return d.DeserializeString(stringVisitor{base, v})
	case reflect.Slice:
		if rawBytes(typ.Elem()) {
			return d.DeserializeBytes(bytesVisitor{base, v})
		}

		return d.DeserializeSeq(sliceVisitor{base, dec, v})
	case reflect.Array:
		return d.DeserializeTuple(typ.Len(), arrayVisitor{base, dec, v, d.Path()})
	case reflect.Pointer:
		return d.DeserializeOption(optionVisitor{base, dec, v})
	case reflect.Map:
		return d.DeserializeMap(mapVisitor{base, dec, v})
	case reflect.Struct:
		model := flect.Of(typ)
		return d.DeserializeStruct(model.Names(), structVisitor{base, dec, v, model, d.Path()})
	case reflect.Interface:
		if typ.NumMethod() == 0 {
			return d.DeserializeAny(anyVisitor{base, dec, v})
		}
	}

	return &Error{Kind: TypeMismatch, Key: d.Path(), Expected: typ.String(), Err: unexpected("unsupported type")}
}

// rawBytes reports whether a slice of elem is filled with the bytes of the value rather
// than element by element.
func rawBytes(elem reflect.Type) bool {
	if elem.Kind() != reflect.Uint8 {
		return false
	}

	for _, iface := range []reflect.Type{unmarshalerType, textUnmarshalerType, enumType} {
		if elem.Implements(iface) || reflect.PointerTo(elem).Implements(iface) {
			return false
		}
	}

	return true
}

func enumVariants(v reflect.Value) ([]string, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
	default:
		return nil, false
	}

	if v.Type().Implements(enumType) {
		return v.Interface().(Enum).Variants(), true
	}

	if v.CanAddr() && v.Addr().Type().Implements(enumType) {
		return v.Addr().Interface().(Enum).Variants(), true
	}

	return nil, false
}

type boolVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (b boolVisitor) VisitBool(x bool) error {
	b.v.SetBool(x)
	return nil
}

type intVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (i intVisitor) VisitInt(x int64) error {
	i.v.SetInt(x)
	return nil
}

type uintVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (u uintVisitor) VisitUint(x uint64) error {
	u.v.SetUint(x)
	return nil
}

type floatVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (f floatVisitor) VisitFloat(x float64) error {
	f.v.SetFloat(x)
	return nil
}

type stringVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (s stringVisitor) VisitString(x string) error {
	s.v.SetString(x)
	return nil
}

type bytesVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (b bytesVisitor) VisitBytes(x []byte) error {
	b.v.SetBytes(append(make([]byte, 0, len(x)), x...))
	return nil
}

type textVisitor struct {
	BaseVisitor
	u encoding.TextUnmarshaler
}

func (t textVisitor) VisitBytes(x []byte) error {
	return t.u.UnmarshalText(x)
}

type enumVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (e enumVisitor) VisitEnum(index int, name string) error {
	switch e.v.Kind() {
	case reflect.String:
		e.v.SetString(name)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.v.SetInt(int64(index))
	default:
		e.v.SetUint(uint64(index))
	}

	return nil
}

type optionVisitor struct {
	BaseVisitor
	dec decoder
	v   reflect.Value
}

func (o optionVisitor) VisitNone() error {
	o.v.SetZero()
	return nil
}

func (o optionVisitor) VisitSome(d Deserializer) error {
	ptr := reflect.New(o.v.Type().Elem())
	if err := o.dec.decode(d, ptr.Elem()); err != nil {
		return err
	}

	o.v.Set(ptr)
	return nil
}

type sliceVisitor struct {
	BaseVisitor
	dec decoder
	v   reflect.Value
}

func (s sliceVisitor) VisitSeq(seq SeqAccess) error {
	hint, _ := seq.SizeHint()
	slice := reflect.MakeSlice(s.v.Type(), 0, hint)

	for {
		element, ok := seq.NextElement()
		if !ok {
			break
		}

		value := reflect.New(s.v.Type().Elem()).Elem()
		if err := s.dec.decode(element, value); err != nil {
			return err
		}

		slice = reflect.Append(slice, value)
	}

	s.v.Set(slice)
	return nil
}

type arrayVisitor struct {
	BaseVisitor
	dec  decoder
	v    reflect.Value
	path string
}

func (a arrayVisitor) VisitSeq(seq SeqAccess) error {
	i := 0
	for ; ; i++ {
		element, ok := seq.NextElement()
		if !ok {
			break
		}

		if i >= a.v.Len() {
			i += 1 + drain(seq)
			break
		}

		if err := a.dec.decode(element, a.v.Index(i)); err != nil {
			return err
		}
	}

	if i != a.v.Len() {
		return &Error{
			Kind:     InvalidLength,
			Key:      a.path,
			Expected: a.Expected,
			Err:      fmt.Errorf("expected %d elements, got %d", a.v.Len(), i),
		}
	}

	return nil
}

func drain(seq SeqAccess) (n int) {
	for {
		if _, ok := seq.NextElement(); !ok {
			return n
		}

		n++
	}
}

type mapVisitor struct {
	BaseVisitor
	dec decoder
	v   reflect.Value
}

func (m mapVisitor) VisitMap(access MapAccess) error {
	typ := m.v.Type()
	hint, _ := access.SizeHint()
	result := reflect.MakeMapWithSize(typ, hint)

	for {
		keyDe, ok := access.NextKey()
		if !ok {
			break
		}

		key := reflect.New(typ.Key()).Elem()
		if err := m.dec.decode(keyDe, key); err != nil {
			return err
		}

		value := reflect.New(typ.Elem()).Elem()
		if err := m.dec.decode(access.Value(), value); err != nil {
			return err
		}

		result.SetMapIndex(key, value)
	}

	m.v.Set(result)
	return nil
}

type structVisitor struct {
	BaseVisitor
	dec   decoder
	v     reflect.Value
	model *flect.Model
	path  string
}

func (s structVisitor) VisitMap(access MapAccess) error {
	seen := make([]bool, len(s.model.Fields))

	for {
		keyDe, ok := access.NextKey()
		if !ok {
			break
		}

		var key string
		if err := keyDe.DeserializeString(captureVisitor{BaseVisitor{Expected: "string"}, &key}); err != nil {
			return err
		}

		i, found := s.model.Lookup(key, s.dec.cfg.Fields.FoldCase)
		if !found {
			continue
		}

		field := s.model.Fields[i]
		if err := s.dec.decode(access.Value(), s.v.FieldByIndex(field.Index)); err != nil {
			return err
		}

		seen[i] = true
	}

	for i, field := range s.model.Fields {
		if !seen[i] && !field.Optional {
			return &Error{
				Kind:     MissingField,
				Key:      Join(s.path, field.Name),
				Expected: field.Type.String(),
			}
		}
	}

	return nil
}

type captureVisitor struct {
	BaseVisitor
	out *string
}

func (c captureVisitor) VisitString(x string) error {
	*c.out = x
	return nil
}

// anyVisitor builds strings, []any and map[string]any out of whatever is presented.
type anyVisitor struct {
	BaseVisitor
	dec decoder
	v   reflect.Value
}

func (a anyVisitor) set(x any) error {
	a.v.Set(reflect.ValueOf(x))
	return nil
}

func (a anyVisitor) VisitBool(x bool) error { return a.set(x) }
func (a anyVisitor) VisitInt(x int64) error { return a.set(x) }
func (a anyVisitor) VisitUint(x uint64) error { return a.set(x) }
func (a anyVisitor) VisitFloat(x float64) error { return a.set(x) }
func (a anyVisitor) VisitString(x string) error { return a.set(x) }
func (a anyVisitor) VisitBytes(x []byte) error { return a.set(string(x)) }
func (a anyVisitor) VisitEnum(_ int, n string) error { return a.set(n) }

func (a anyVisitor) VisitNone() error {
	a.v.SetZero()
	return nil
}

func (a anyVisitor) VisitSome(d Deserializer) error {
	return a.dec.decode(d, a.v)
}

func (a anyVisitor) VisitSeq(seq SeqAccess) error {
	var elements []any
	if err := (sliceVisitor{a.BaseVisitor, a.dec, reflect.ValueOf(&elements).Elem()}).VisitSeq(seq); err != nil {
		return err
	}

	return a.set(elements)
}

func (a anyVisitor) VisitMap(access MapAccess) error {
	var m map[string]any
	if err := (mapVisitor{a.BaseVisitor, a.dec, reflect.ValueOf(&m).Elem()}).VisitMap(access); err != nil {
		return err
	}

	return a.set(m)
}
