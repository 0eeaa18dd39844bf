package set

import (
	"slices"
	"testing"
)

func TestSet(t *testing.T) {
	s := New("a", "b", "c", "a")
	s.Add("d")
	if !s.Has("a") {
		t.Errorf(`s.Has("a")=false; expect: true`)
	}
	if s.Has("e") {
		t.Errorf(`s.Has("e")=true; expect: false`)
	}
	if s.Size() != 4 {
		t.Errorf(`s.Size()=%d; expect: 4`, s.Size())
	}

	n := 0
	for range s.All() {
		n++
	}
	if n != 4 {
		t.Errorf(`s.All() called %d times; expect: 4`, n)
	}

	keys := s.Keys()
	slices.Sort(keys)
	if !slices.Equal(keys, []string{"a", "b", "c", "d"}) {
		t.Errorf(`s.Keys()=%v; expect: [a b c d]`, keys)
	}
}
