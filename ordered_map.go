package main

import "iter"

// OrderedMap remembers the order keys were first set in.
type OrderedMap[K comparable, V any] struct {
	ks []K
	vs map[K]V
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		vs: make(map[K]V),
	}
}

func (om *OrderedMap[K, V]) Set(k K, v V) {
	if !om.Has(k) {
		om.ks = append(om.ks, k)
	}
	om.vs[k] = v
}

func (om *OrderedMap[K, V]) Has(k K) bool {
	_, has := om.vs[k]
	return has
}

func (om *OrderedMap[K, V]) Get(k K) V {
	return om.vs[k]
}

func (om *OrderedMap[K, V]) Len() int {
	return len(om.ks)
}

func (om *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range om.ks {
			if !yield(k, om.vs[k]) {
				return
			}
		}
	}
}
