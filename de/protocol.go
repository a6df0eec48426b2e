// Package de drives the deserialization of parsed query strings into arbitrary Go values.
//
// A Deserializer presents a single value of the parsed query (or the whole query) and is
// asked by a Visitor for the shape it expects. The deserializer then answers by calling
// the corresponding Visit method, or fails if the value can't have such a shape. Which
// shapes are possible depends on the parsing mode.
package de

// Deserializer presents a value to visitors. Every method calls at most one method of the
// visitor and returns its error, if any.
type Deserializer interface {
	// Path returns the key addressing the value, written just as in the query.
	Path() string

	DeserializeAny(v Visitor) error
	DeserializeBool(v Visitor) error
	DeserializeInt(bits int, v Visitor) error
	DeserializeUint(bits int, v Visitor) error
	DeserializeFloat(bits int, v Visitor) error
	DeserializeString(v Visitor) error
	// DeserializeBytes passes the decoded bytes, which may alias the query. Visitors must
	// copy them if they are going to be retained.
	DeserializeBytes(v Visitor) error
	DeserializeOption(v Visitor) error
	DeserializeSeq(v Visitor) error
	// DeserializeTuple expects exactly n elements.
	DeserializeTuple(n int, v Visitor) error
	DeserializeMap(v Visitor) error
	DeserializeStruct(fields []string, v Visitor) error
	// DeserializeEnum matches the value against the variant names, case-sensitively.
	DeserializeEnum(variants []string, v Visitor) error
}

type Visitor interface {
	// Expecting describes what the visitor expects, e.g. `uint8`. It is used in errors.
	Expecting() string

	VisitBool(b bool) error
	VisitInt(i int64) error
	VisitUint(u uint64) error
	VisitFloat(f float64) error
	VisitString(s string) error
	VisitBytes(b []byte) error
	VisitNone() error
	VisitSome(d Deserializer) error
	VisitSeq(seq SeqAccess) error
	VisitMap(m MapAccess) error
	VisitEnum(index int, name string) error
}

type SeqAccess interface {
	// NextElement returns the deserializer of the next element, or false if there are
	// no more elements.
	NextElement() (Deserializer, bool)
	// SizeHint returns the number of remaining elements, if known.
	SizeHint() (n int, known bool)
}

type MapAccess interface {
	// NextKey returns the deserializer of the next key, or false if there are no more
	// entries.
	NextKey() (Deserializer, bool)
	// Value returns the deserializer of the value by the last key returned by NextKey.
	Value() Deserializer
	// SizeHint returns the number of remaining entries, if known.
	SizeHint() (n int, known bool)
}

// Unmarshaler is implemented by types taking care of their own deserialization.
type Unmarshaler interface {
	UnmarshalQuery(d Deserializer) error
}

// Enum is implemented by types, which are deserialized from one of the variant names.
// Integer types are set to the index of the matched variant, string types to its name.
type Enum interface {
	Variants() []string
}

// BaseVisitor rejects everything. It is meant to be embedded by visitors, which then
// override the methods for the shapes they accept.
type BaseVisitor struct {
	Expected string
}

func (b BaseVisitor) Expecting() string {
	return b.Expected
}

func (b BaseVisitor) mismatch(got string) error {
	return &Error{Kind: TypeMismatch, Expected: b.Expected, Err: unexpected(got)}
}

func (b BaseVisitor) VisitBool(bool) error { return b.mismatch("boolean") }
func (b BaseVisitor) VisitInt(int64) error { return b.mismatch("integer") }
func (b BaseVisitor) VisitUint(uint64) error { return b.mismatch("unsigned integer") }
func (b BaseVisitor) VisitFloat(float64) error { return b.mismatch("float") }
func (b BaseVisitor) VisitString(string) error { return b.mismatch("string") }
func (b BaseVisitor) VisitBytes([]byte) error { return b.mismatch("bytes") }
func (b BaseVisitor) VisitNone() error { return b.mismatch("none") }
func (b BaseVisitor) VisitSome(Deserializer) error { return b.mismatch("option") }
func (b BaseVisitor) VisitSeq(SeqAccess) error { return b.mismatch("sequence") }
func (b BaseVisitor) VisitMap(MapAccess) error { return b.mismatch("map") }
func (b BaseVisitor) VisitEnum(int, string) error { return b.mismatch("enum") }

type unexpected string

func (u unexpected) Error() string {
	return "unexpected " + string(u)
}
