package parsers

import (
	"bytes"
	"iter"

	"github.com/indigo-web/querystring/decode"
	"github.com/indigo-web/querystring/kv"
	"github.com/indigo-web/querystring/scan"
)

// Entry holds everything found by a single decoded key.
type Entry struct {
	Values []Value
	// MalformedKey is set if any of the spellings of the key contained a malformed
	// escape sequence. RawKey is then the first such spelling, as found in the query.
	MalformedKey bool
	RawKey       []byte
}

// flat is the shared storage of the modes which have no nesting.
type flat struct {
	entries *kv.Storage[Entry]
}

func parseFlat(data []byte, accumulate bool) flat {
	f := flat{entries: kv.NewPrealloc[Entry](estimatePairs(data))}

	for pair := range scan.Scan(data) {
		key := decode.Decode(pair.Key)
		entry, _ := f.entries.Slot(key.Bytes())
		if key.Malformed() && !entry.MalformedKey {
			entry.MalformedKey, entry.RawKey = true, pair.Key
		}
		if accumulate {
			entry.Values = append(entry.Values, valueOf(pair))
		} else {
			entry.Values = append(entry.Values[:0], valueOf(pair))
		}
	}

	return f
}

// estimatePairs returns the upper bound of pairs in the query, capped so that a long
// query doesn't preallocate too much upfront.
func estimatePairs(data []byte) int {
	return min(bytes.Count(data, []byte{'&'})+1, 64)
}

// Keys returns an iterator over the decoded keys in order of their first appearance.
func (f flat) Keys() iter.Seq[string] {
	return f.entries.Keys()
}

// Has reports whether the key was presented in the query.
func (f flat) Has(key string) bool {
	return f.entries.Has(key)
}

// Len returns the number of distinct keys.
func (f flat) Len() int {
	return f.entries.Len()
}

// Entry returns the raw entry by the key.
func (f flat) Entry(key string) (Entry, bool) {
	return f.entries.Get(key)
}

// Entries returns an iterator over all the raw entries in order of the first appearance
// of their keys.
func (f flat) Entries() iter.Seq2[string, Entry] {
	return f.entries.Pairs()
}

// EntryAt returns the key and its entry by the position in order of first appearance.
func (f flat) EntryAt(i int) (key string, entry Entry) {
	pair := f.entries.At(i)
	return pair.Key, pair.Value
}

// Value returns the last decoded value by the key.
func (f flat) Value(key string) (value []byte, found bool) {
	entry, found := f.entries.Get(key)
	if !found {
		return nil, false
	}

	return entry.Values[len(entry.Values)-1].Decode().Bytes(), true
}

func (f flat) values(key string) [][]byte {
	entry, _ := f.entries.Get(key)
	return decodeAll(entry.Values)
}

func (f flat) pairs(yield func(string, []byte) bool) {
	for key, entry := range f.entries.Pairs() {
		for _, value := range entry.Values {
			if !yield(key, value.Decode().Bytes()) {
				return
			}
		}
	}
}

// UrlEncodedQS keeps only the last value of every key.
type UrlEncodedQS struct {
	flat
}

func ParseUrlEncoded(data []byte) *UrlEncodedQS {
	return &UrlEncodedQS{flat: parseFlat(data, false)}
}

// Values returns the decoded value by the key as a single-element slice, or nil if the key
// is absent.
func (u *UrlEncodedQS) Values(key string) [][]byte {
	return u.values(key)
}

// Pairs returns an iterator over keys and their decoded values.
func (u *UrlEncodedQS) Pairs() iter.Seq2[string, []byte] {
	return u.pairs
}

// DuplicateQS keeps every value of every key in order of arrival.
type DuplicateQS struct {
	flat
}

func ParseDuplicate(data []byte) *DuplicateQS {
	return &DuplicateQS{flat: parseFlat(data, true)}
}

// Values returns all the decoded values by the key in order of arrival, or nil if the key
// is absent.
func (d *DuplicateQS) Values(key string) [][]byte {
	return d.values(key)
}

// Pairs returns an iterator over keys and their decoded values. A key is yielded as many
// times as it has values.
func (d *DuplicateQS) Pairs() iter.Seq2[string, []byte] {
	return d.pairs
}

// DelimiterQS keeps the last value of every key. A value may consist of multiple
// sub-values separated by the delimiter, which are split only when asked for.
type DelimiterQS struct {
	flat
	delimiter byte
}

func ParseDelimiter(data []byte, delimiter byte) *DelimiterQS {
	return &DelimiterQS{
		flat:      parseFlat(data, false),
		delimiter: delimiter,
	}
}

func (d *DelimiterQS) Delimiter() byte {
	return d.delimiter
}

// Values returns the decoded sub-values by the key, or nil if the key is absent. An empty
// value results in a single empty sub-value.
func (d *DelimiterQS) Values(key string) [][]byte {
	entry, found := d.entries.Get(key)
	if !found {
		return nil
	}

	return decodeAll(entry.Values[0].Split(d.delimiter))
}

// Pairs returns an iterator over keys and their decoded whole (unsplit) values.
func (d *DelimiterQS) Pairs() iter.Seq2[string, []byte] {
	return d.pairs
}
