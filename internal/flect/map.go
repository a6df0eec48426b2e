package flect

import "strings"

// attrsMap buckets field names by their length, as most of the time there are just
// a few names of each length.
type attrsMap struct {
	buckets []attrsMapBucket
}

func (a *attrsMap) Lookup(key string) (field int, found bool) {
	if len(key) >= len(a.buckets) {
		return 0, false
	}

	for _, entry := range a.buckets[len(key)] {
		if entry.Key == key {
			return entry.Value, true
		}
	}

	return 0, false
}

// LookupFold is the same as Lookup, except names are compared case-insensitively.
func (a *attrsMap) LookupFold(key string) (field int, found bool) {
	if len(key) >= len(a.buckets) {
		return 0, false
	}

	for _, entry := range a.buckets[len(key)] {
		if strings.EqualFold(entry.Key, key) {
			return entry.Value, true
		}
	}

	return 0, false
}

func (a *attrsMap) Insert(key string, value int) {
	if len(a.buckets) <= len(key) {
		a.grow(len(key))
	}

	a.buckets[len(key)] = append(a.buckets[len(key)], attrsMapEntry{
		Key:   key,
		Value: value,
	})
}

func (a *attrsMap) grow(n int) {
	newBuckets := make([]attrsMapBucket, n+1)
	copy(newBuckets, a.buckets)
	a.buckets = newBuckets
}

type attrsMapBucket []attrsMapEntry

type attrsMapEntry struct {
	Key   string
	Value int
}
