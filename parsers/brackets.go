package parsers

import (
	"bytes"
	"iter"

	"github.com/indigo-web/querystring/decode"
	"github.com/indigo-web/querystring/internal/arena"
	"github.com/indigo-web/querystring/kv"
	"github.com/indigo-web/querystring/scan"
	"github.com/indigo-web/utils/uf"
)

type node struct {
	// values are terminal values, written either by a bare `name=` or by `name[]=`.
	values []Value
	// children maps subkeys to node indexes.
	children *kv.Storage[int]
	// order holds every child in order of creation, including anonymous ones, created by
	// an empty pair of brackets followed by more subkeys.
	order []int
	// nested reflects whether the last write at this level was a bracketed one.
	nested bool
	// rawKey is the first spelling of the key addressing the node, which had a malformed
	// escape sequence.
	rawKey []byte
}

// BracketsQS is a tree of nodes, where each top-level key is a node, which in turn may
// have subkeys, written as `name[sub1][sub2]`. Brackets may be percent-encoded.
type BracketsQS struct {
	nodes arena.Arena[node]
}

func ParseBrackets(data []byte) *BracketsQS {
	b := &BracketsQS{nodes: arena.NewArena[node](8)}
	b.nodes.At(b.nodes.Alloc()).nested = true

	for pair := range scan.Scan(data) {
		b.insert(pair.Key, valueOf(pair))
	}

	return b
}

func (b *BracketsQS) insert(rawKey []byte, value Value) {
	key := decode.Decode(rawKey)
	base, segments := splitKey(key.Bytes())
	current := b.child(0, base)

	for i, segment := range segments {
		if len(segment) == 0 {
			if i == len(segments)-1 {
				break
			}

			child := b.nodes.Alloc()
			parent := b.nodes.At(current)
			parent.order = append(parent.order, child)
			parent.nested = true
			current = child
			continue
		}

		b.nodes.At(current).nested = true
		current = b.child(current, segment)
	}

	n := b.nodes.At(current)
	n.values = append(n.values, value)
	n.nested = false
	if key.Malformed() && n.rawKey == nil {
		n.rawKey = rawKey
	}
}

// child returns the named child of the parent, creating it if necessary.
func (b *BracketsQS) child(parent int, name []byte) int {
	p := b.nodes.At(parent)
	if p.children == nil {
		p.children = kv.New[int]()
	}

	slot, inserted := p.children.Slot(name)
	if !inserted {
		return *slot
	}

	index := b.nodes.Alloc()
	*slot = index
	// the allocation invalidates p
	p = b.nodes.At(parent)
	p.order = append(p.order, index)

	return index
}

// splitKey splits the decoded key into the base name and its subkeys. A key starting with
// a bracket is a plain name. An unclosed bracket takes the rest of the key as its subkey.
// Anything after a closing bracket, which isn't followed by an opening one, is ignored.
func splitKey(key []byte) (base []byte, segments [][]byte) {
	open := bytes.IndexByte(key, '[')
	if open <= 0 {
		return key, nil
	}

	base, key = key[:open], key[open:]
	for len(key) > 0 && key[0] == '[' {
		closing := bytes.IndexByte(key, ']')
		if closing == -1 {
			segments = append(segments, key[1:])
			break
		}

		segments = append(segments, key[1:closing])
		key = key[closing+1:]
	}

	return base, segments
}

// Root returns the node holding all the top-level keys.
func (b *BracketsQS) Root() Node {
	return Node{qs: b, index: 0}
}

// Node returns the node by the top-level key.
func (b *BracketsQS) Node(key string) (Node, bool) {
	return b.Root().Child(key)
}

// Lookup walks the path of subkeys starting from the top-level key.
func (b *BracketsQS) Lookup(path ...string) (Node, bool) {
	return b.Root().Lookup(path...)
}

// Keys returns an iterator over the top-level keys in order of their first appearance.
func (b *BracketsQS) Keys() iter.Seq[string] {
	return b.Root().Keys()
}

// Has reports whether the top-level key was presented.
func (b *BracketsQS) Has(key string) bool {
	_, found := b.Node(key)
	return found
}

// Len returns the number of distinct top-level keys.
func (b *BracketsQS) Len() int {
	return b.Root().Len()
}

// Values returns the decoded terminal values by the key. The key may be written with
// brackets in order to address a nested node, e.g. `user[name]`.
func (b *BracketsQS) Values(key string) [][]byte {
	base, segments := splitKey(uf.S2B(key))
	n, found := b.Node(uf.B2S(base))
	for _, segment := range segments {
		if !found {
			break
		}

		n, found = n.Child(uf.B2S(segment))
	}

	if !found {
		return nil
	}

	return n.Values()
}

// Node is a read-only view of a single tree node.
type Node struct {
	qs    *BracketsQS
	index int
}

func (n Node) get() *node {
	return n.qs.nodes.At(n.index)
}

// Nested reports whether the node is a mapping of subkeys, which is true if the last write
// into it was bracketed.
func (n Node) Nested() bool {
	return n.get().nested
}

// MalformedKey reports whether the key addressing the node had a malformed escape sequence.
func (n Node) MalformedKey() bool {
	return n.get().rawKey != nil
}

// RawKey returns the first malformed spelling of the key addressing the node, or nil.
func (n Node) RawKey() []byte {
	return n.get().rawKey
}

// Raw returns the terminal raw values.
func (n Node) Raw() []Value {
	return n.get().values
}

// Values returns the decoded terminal values in order of arrival.
func (n Node) Values() [][]byte {
	return decodeAll(n.get().values)
}

// Child returns the child by its subkey.
func (n Node) Child(key string) (Node, bool) {
	children := n.get().children
	index, found := children.Get(key)
	if !found {
		return Node{}, false
	}

	return Node{qs: n.qs, index: index}, true
}

// Lookup walks the path of subkeys.
func (n Node) Lookup(path ...string) (Node, bool) {
	found := true
	for _, key := range path {
		if n, found = n.Child(key); !found {
			break
		}
	}

	return n, found
}

// Keys returns an iterator over the named subkeys in order of their first appearance.
func (n Node) Keys() iter.Seq[string] {
	children := n.get().children
	if children == nil {
		return func(func(string) bool) {}
	}

	return children.Keys()
}

// Children returns an iterator over the named children in order of their first appearance.
func (n Node) Children() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		children := n.get().children
		if children == nil {
			return
		}

		for key, index := range children.Pairs() {
			if !yield(key, Node{qs: n.qs, index: index}) {
				return
			}
		}
	}
}

// ChildAt returns the named child by its position in order of first appearance.
func (n Node) ChildAt(i int) (key string, child Node) {
	pair := n.get().children.At(i)
	return pair.Key, Node{qs: n.qs, index: pair.Value}
}

// Len returns the number of distinct named subkeys.
func (n Node) Len() int {
	return n.get().children.Len()
}

// Elements returns every child, named or anonymous, in order of creation.
func (n Node) Elements() []Node {
	order := n.get().order
	if len(order) == 0 {
		return nil
	}

	elements := make([]Node, len(order))
	for i, index := range order {
		elements[i] = Node{qs: n.qs, index: index}
	}

	return elements
}

// Anonymous reports whether the node has children without a subkey.
func (n Node) Anonymous() bool {
	return len(n.get().order) > n.Len()
}
