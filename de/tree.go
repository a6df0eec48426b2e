package de

import (
	"github.com/indigo-web/querystring/config"
	"github.com/indigo-web/querystring/parsers"
	"github.com/indigo-web/utils/uf"
)

func NewBrackets(qs *parsers.BracketsQS, cfg *config.Config) Deserializer {
	return treeNode{cfg: cfg, node: qs.Root()}
}

// treeNode presents a node of the brackets tree. Nested nodes are maps of their subkeys
// or sequences of their children, terminal nodes are single values or sequences of them.
type treeNode struct {
	cfg   *config.Config
	path  *path
	node  parsers.Node
	depth int
}

func (t treeNode) child(p *path, node parsers.Node) Deserializer {
	if t.depth+1 > t.cfg.Brackets.Depth() {
		return failing{path: p, err: &Error{
			Kind: DepthLimitExceeded,
			Key:  p.String(),
		}}
	}

	child := treeNode{cfg: t.cfg, path: p, node: node, depth: t.depth + 1}
	return checkKey(t.cfg, p, node.RawKey(), child)
}

func (t treeNode) terminal(v Visitor) (scalar, error) {
	if t.node.Nested() {
		return scalar{}, mismatch(t.path, v, "nested value")
	}

	values := t.node.Raw()
	return scalar{cfg: t.cfg, path: t.path, raw: values[len(values)-1].Raw}, nil
}

func (t treeNode) Path() string {
	return t.path.String()
}

func (t treeNode) DeserializeAny(v Visitor) error {
	switch {
	case t.node.Nested() && t.node.Anonymous():
		return t.visitElements(v)
	case t.node.Nested():
		return t.visitMap(v)
	case len(t.node.Raw()) > 1:
		return keyed(t.path, v.VisitSeq(newValueSeq(t.cfg, t.path, t.node.Raw())))
	default:
		s, _ := t.terminal(v)
		return s.DeserializeAny(v)
	}
}

func (t treeNode) DeserializeBool(v Visitor) error {
	s, err := t.terminal(v)
	if err != nil {
		return err
	}

	return s.DeserializeBool(v)
}

func (t treeNode) DeserializeInt(bits int, v Visitor) error {
	s, err := t.terminal(v)
	if err != nil {
		return err
	}

	return s.DeserializeInt(bits, v)
}

func (t treeNode) DeserializeUint(bits int, v Visitor) error {
	s, err := t.terminal(v)
	if err != nil {
		return err
	}

	return s.DeserializeUint(bits, v)
}

func (t treeNode) DeserializeFloat(bits int, v Visitor) error {
	s, err := t.terminal(v)
	if err != nil {
		return err
	}

	return s.DeserializeFloat(bits, v)
}

func (t treeNode) DeserializeString(v Visitor) error {
	s, err := t.terminal(v)
	if err != nil {
		return err
	}

	return s.DeserializeString(v)
}

func (t treeNode) DeserializeBytes(v Visitor) error {
	s, err := t.terminal(v)
	if err != nil {
		return err
	}

	return s.DeserializeBytes(v)
}

func (t treeNode) DeserializeEnum(variants []string, v Visitor) error {
	s, err := t.terminal(v)
	if err != nil {
		return err
	}

	return s.DeserializeEnum(variants, v)
}

func (t treeNode) DeserializeOption(v Visitor) error {
	if !t.node.Nested() {
		values := t.node.Raw()
		if values[len(values)-1].Empty() {
			s, _ := t.terminal(v)
			return s.fail(UnexpectedEmptyValue, v, nil, errEmptyOption)
		}
	}

	return keyed(t.path, v.VisitSome(t))
}

func (t treeNode) DeserializeSeq(v Visitor) error {
	if t.node.Nested() {
		return t.visitElements(v)
	}

	return keyed(t.path, v.VisitSeq(newValueSeq(t.cfg, t.path, t.node.Raw())))
}

func (t treeNode) DeserializeTuple(n int, v Visitor) error {
	got := len(t.node.Raw())
	if t.node.Nested() {
		got = len(t.node.Elements())
	}

	if got != n {
		return lengthMismatch(t.path, v, n, got)
	}

	return t.DeserializeSeq(v)
}

func (t treeNode) DeserializeMap(v Visitor) error {
	if !t.node.Nested() {
		return mismatch(t.path, v, "terminal value")
	}

	return t.visitMap(v)
}

func (t treeNode) DeserializeStruct(_ []string, v Visitor) error {
	return t.DeserializeMap(v)
}

func (t treeNode) visitMap(v Visitor) error {
	return keyed(t.path, v.VisitMap(&treeMap{parent: t}))
}

func (t treeNode) visitElements(v Visitor) error {
	return keyed(t.path, v.VisitSeq(&treeSeq{parent: t, elements: t.node.Elements()}))
}

// treeMap iterates over the named children. Anonymous ones aren't addressable by a key,
// so they are left out.
type treeMap struct {
	parent treeNode
	next   int
	key    string
	node   parsers.Node
}

func (m *treeMap) NextKey() (Deserializer, bool) {
	if m.next >= m.parent.node.Len() {
		return nil, false
	}

	m.key, m.node = m.parent.node.ChildAt(m.next)
	m.next++

	return scalar{cfg: m.parent.cfg, path: m.parent.path.child(m.key), raw: uf.S2B(m.key), decoded: true}, true
}

func (m *treeMap) Value() Deserializer {
	return m.parent.child(m.parent.path.child(m.key), m.node)
}

func (m *treeMap) SizeHint() (int, bool) {
	return m.parent.node.Len() - m.next, true
}

type treeSeq struct {
	parent   treeNode
	elements []parsers.Node
	next     int
}

func (s *treeSeq) NextElement() (Deserializer, bool) {
	if s.next >= len(s.elements) {
		return nil, false
	}

	element := s.parent.child(s.parent.path.element(s.next), s.elements[s.next])
	s.next++

	return element, true
}

func (s *treeSeq) SizeHint() (int, bool) {
	return len(s.elements) - s.next, true
}
