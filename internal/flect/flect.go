// Package flect builds and caches models of struct types: which keys address which
// fields, and which fields may be left out.
package flect

import (
	"reflect"
	"strings"
	"sync"
)

const tagName = "query"

type Field struct {
	// Name is the key addressing the field.
	Name  string
	Index []int
	Type  reflect.Type
	// Optional fields may be absent: pointers and fields tagged with omitempty.
	Optional bool
}

type Model struct {
	Type   reflect.Type
	Fields []Field
	names  attrsMap
}

var cache sync.Map // reflect.Type -> *Model

// Of returns the model of the struct type. Models are built once per type.
func Of(typ reflect.Type) *Model {
	if model, found := cache.Load(typ); found {
		return model.(*Model)
	}

	model, _ := cache.LoadOrStore(typ, newModel(typ))
	return model.(*Model)
}

func newModel(typ reflect.Type) *Model {
	model := &Model{Type: typ}
	model.collect(typ, nil)

	for i, field := range model.Fields {
		model.names.Insert(field.Name, i)
	}

	return model
}

func (m *Model) collect(typ reflect.Type, index []int) {
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag, tagged := field.Tag.Lookup(tagName)
		if tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		fieldIndex := append(append([]int(nil), index...), i)

		if field.Anonymous && !tagged && field.Type.Kind() == reflect.Struct {
			m.collect(field.Type, fieldIndex)
			continue
		}

		if !field.IsExported() {
			continue
		}

		if name == "" {
			name = field.Name
		}

		m.Fields = append(m.Fields, Field{
			Name:     name,
			Index:    fieldIndex,
			Type:     field.Type,
			Optional: field.Type.Kind() == reflect.Pointer || hasOption(opts, "omitempty"),
		})
	}
}

func hasOption(opts, option string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == option {
			return true
		}
	}

	return false
}

// Lookup returns the index of the field addressed by the key. If fold is set and no field
// matches exactly, names are compared case-insensitively.
func (m *Model) Lookup(key string, fold bool) (field int, found bool) {
	if field, found = m.names.Lookup(key); found || !fold {
		return field, found
	}

	return m.names.LookupFold(key)
}

// Names returns all the keys in order of fields declaration.
func (m *Model) Names() []string {
	names := make([]string, len(m.Fields))
	for i, field := range m.Fields {
		names[i] = field.Name
	}

	return names
}
