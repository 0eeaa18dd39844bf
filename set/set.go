package set

import (
	"iter"
	"maps"
)

type Set[T comparable] map[T]struct{}

func New[T comparable](ks ...T) *Set[T] {
	set := &Set[T]{}
	for _, k := range ks {
		set.Add(k)
	}
	return set
}

func (set *Set[T]) All() iter.Seq[T] {
	return maps.Keys(*set)
}

func (set *Set[T]) Keys() []T {
	ks := make([]T, 0, set.Size())
	for k := range *set {
		ks = append(ks, k)
	}
	return ks
}

func (set *Set[T]) Size() int {
	return len(*set)
}

func (set *Set[T]) Add(v T) {
	(*set)[v] = struct{}{}
}

func (set *Set[T]) Has(v T) bool {
	_, has := (*set)[v]
	return has
}
