// Package bucket provides the grouping index shared by the size and digest
// stages of the duplicate pipeline.
package bucket

import (
	"cmp"
	"iter"
	"slices"
)

// Index maps a grouping key to the ordered list of paths observed with it.
// Paths keep their insertion order. The zero value is not usable; call New.
type Index[K cmp.Ordered] struct {
	buckets map[K][]string
}

// New returns an empty Index.
func New[K cmp.Ordered]() *Index[K] {
	return &Index[K]{buckets: make(map[K][]string)}
}

// Insert appends path to the bucket for key, creating the bucket if absent.
func (x *Index[K]) Insert(key K, path string) {
	x.buckets[key] = append(x.buckets[key], path)
}

// PruneUnique removes every bucket holding exactly one path and returns the
// number of buckets removed. Afterwards every bucket has at least two paths.
func (x *Index[K]) PruneUnique() int {
	removed := 0
	for key, paths := range x.buckets {
		if len(paths) == 1 {
			delete(x.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of buckets.
func (x *Index[K]) Len() int { return len(x.buckets) }

// Get returns the paths stored under key.
func (x *Index[K]) Get(key K) ([]string, bool) {
	paths, ok := x.buckets[key]
	return paths, ok
}

// Keys returns the bucket keys in ascending order.
func (x *Index[K]) Keys() []K {
	keys := make([]K, 0, len(x.buckets))
	for k := range x.buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// All yields each bucket in ascending key order.
func (x *Index[K]) All() iter.Seq2[K, []string] {
	return func(yield func(K, []string) bool) {
		for _, k := range x.Keys() {
			if !yield(k, x.buckets[k]) {
				return
			}
		}
	}
}

// Paths returns every path across all buckets, bucket by bucket in key order.
func (x *Index[K]) Paths() []string {
	var out []string
	for _, paths := range x.All() {
		out = append(out, paths...)
	}
	return out
}

// Count returns the total number of paths across all buckets.
func (x *Index[K]) Count() int {
	n := 0
	for _, paths := range x.buckets {
		n += len(paths)
	}
	return n
}
