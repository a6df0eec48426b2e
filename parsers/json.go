package parsers

import (
	json "github.com/json-iterator/go"
)

// MarshalJSON renders every key with its last decoded value as a string.
func (u *UrlEncodedQS) MarshalJSON() ([]byte, error) {
	return marshal(func(stream *json.Stream) {
		writeFlat(stream, u.flat, func(entry Entry) {
			writeValue(stream, entry.Values[len(entry.Values)-1])
		})
	})
}

// MarshalJSON renders every key with an array of its decoded values.
func (d *DuplicateQS) MarshalJSON() ([]byte, error) {
	return marshal(func(stream *json.Stream) {
		writeFlat(stream, d.flat, func(entry Entry) {
			writeValues(stream, entry.Values)
		})
	})
}

// MarshalJSON renders every key with an array of its decoded sub-values.
func (d *DelimiterQS) MarshalJSON() ([]byte, error) {
	return marshal(func(stream *json.Stream) {
		writeFlat(stream, d.flat, func(entry Entry) {
			writeValues(stream, entry.Values[0].Split(d.delimiter))
		})
	})
}

// MarshalJSON renders the tree. Nested nodes become objects, or arrays if they have anonymous
// children. Terminal nodes become a string if there's a single value, an array otherwise.
func (b *BracketsQS) MarshalJSON() ([]byte, error) {
	return marshal(func(stream *json.Stream) {
		writeNode(stream, b.Root())
	})
}

func marshal(write func(stream *json.Stream)) ([]byte, error) {
	stream := json.ConfigDefault.BorrowStream(nil)
	defer json.ConfigDefault.ReturnStream(stream)

	write(stream)
	if stream.Error != nil {
		return nil, stream.Error
	}

	return append([]byte(nil), stream.Buffer()...), nil
}

func writeFlat(stream *json.Stream, f flat, writeEntry func(Entry)) {
	stream.WriteObjectStart()
	first := true
	for key, entry := range f.Entries() {
		if !first {
			stream.WriteMore()
		}

		first = false
		stream.WriteObjectField(key)
		writeEntry(entry)
	}
	stream.WriteObjectEnd()
}

func writeValue(stream *json.Stream, value Value) {
	stream.WriteString(value.Decode().View())
}

func writeValues(stream *json.Stream, values []Value) {
	stream.WriteArrayStart()
	for i, value := range values {
		if i > 0 {
			stream.WriteMore()
		}

		writeValue(stream, value)
	}
	stream.WriteArrayEnd()
}

func writeNode(stream *json.Stream, n Node) {
	switch {
	case !n.Nested():
		values := n.Raw()
		if len(values) == 1 {
			writeValue(stream, values[0])
		} else {
			writeValues(stream, values)
		}
	case n.Anonymous():
		stream.WriteArrayStart()
		for i, element := range n.Elements() {
			if i > 0 {
				stream.WriteMore()
			}

			writeNode(stream, element)
		}
		stream.WriteArrayEnd()
	default:
		stream.WriteObjectStart()
		first := true
		for key, child := range n.Children() {
			if !first {
				stream.WriteMore()
			}

			first = false
			stream.WriteObjectField(key)
			writeNode(stream, child)
		}
		stream.WriteObjectEnd()
	}
}
