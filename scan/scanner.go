// Package scan splits a raw query string into key-value pairs. Nothing is decoded and
// nothing is allocated: every pair refers to the original data.
package scan

import (
	"iter"
)

// Pair is a single `key=value` segment as it appears in the query. HasValue is false for
// segments without the equality sign, which are treated as keys with an empty value.
type Pair struct {
	Key, Value []byte
	HasValue   bool
}

// Scanner yields pairs from left to right. It is single-pass: once exhausted, a new scanner
// must be created in order to scan the data again.
type Scanner struct {
	data []byte
}

func New(data []byte) *Scanner {
	return &Scanner{data: data}
}

// Next returns the next pair, or false when the data is exhausted. Empty segments (as in
// `a=1&&b=2`) are skipped.
func (s *Scanner) Next() (pair Pair, ok bool) {
	data := s.data

segment:
	if len(data) == 0 {
		s.data = nil
		return pair, false
	}

	for i, c := range data {
		switch c {
		case '&':
			if i == 0 {
				data = data[1:]
				goto segment
			}

			pair.Key, s.data = data[:i], data[i+1:]
			return pair, true
		case '=':
			pair.Key, pair.HasValue = data[:i], true
			data = data[i+1:]
			goto value
		}
	}

	pair.Key, s.data = data, nil
	return pair, true

value:
	for i, c := range data {
		if c == '&' {
			pair.Value, s.data = data[:i], data[i+1:]
			return pair, true
		}
	}

	pair.Value, s.data = data, nil
	return pair, true
}

// All exhausts the scanner.
func (s *Scanner) All() iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		for {
			pair, ok := s.Next()
			if !ok || !yield(pair) {
				return
			}
		}
	}
}

// Scan is a shorthand for New(data).All().
func Scan(data []byte) iter.Seq[Pair] {
	return New(data).All()
}
