package de

import (
	"strconv"
	"strings"
)

// path is a chain of keys leading to the current value. It is rendered only when an error
// occurs.
type path struct {
	parent *path
	name   string
	index  int
	// indexed paths denote sequence elements
	indexed bool
}

func (p *path) child(name string) *path {
	return &path{parent: p, name: name}
}

func (p *path) element(i int) *path {
	return &path{parent: p, index: i, indexed: true}
}

func (p *path) String() string {
	if p == nil {
		return ""
	}

	var chain []*path
	for c := p; c != nil; c = c.parent {
		chain = append(chain, c)
	}

	var b strings.Builder
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]
		switch {
		case i == len(chain)-1 && !c.indexed:
			b.WriteString(c.name)
		case c.indexed:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(c.index))
			b.WriteByte(']')
		default:
			b.WriteByte('[')
			b.WriteString(c.name)
			b.WriteByte(']')
		}
	}

	return b.String()
}

// Join appends the subkey to the key, just like brackets do.
func Join(key, sub string) string {
	if key == "" {
		return sub
	}

	return key + "[" + sub + "]"
}
