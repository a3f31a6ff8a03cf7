package change

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setOf(elems ...int) map[int]struct{} {
	s := make(map[int]struct{}, len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

func TestSetChangeApply(t *testing.T) {
	s := setOf(1, 2, 3)
	c := NewSetChange([]int{2}, []int{7})
	c.Apply(s)
	assert.Equal(t, setOf(1, 3, 7), s)
}

func TestSetChangeMergeUnions(t *testing.T) {
	a := NewSetChange([]int{1}, []int{2})
	b := NewSetChange([]int{3}, []int{4})
	m := a.Merge(b)
	assert.Equal(t, setOf(1, 3), m.Removed)
	assert.Equal(t, setOf(2, 4), m.Inserted)
}

func TestSetChangeMergeCancels(t *testing.T) {
	// insert 2 then remove 2; remove 5 then insert 5
	a := NewSetChange([]int{5}, []int{2})
	b := NewSetChange([]int{2}, []int{5})
	m := a.Merge(b)
	assert.True(t, m.IsEmpty())

	// the law: applying the merge equals applying both in order
	// states a is well-formed against: 5 present, 2 absent
	for _, initial := range [][]int{{5}, {1, 5}, {1, 3, 5}} {
		s1 := setOf(initial...)
		s2 := setOf(initial...)
		a.Apply(s1)
		b.Apply(s1)
		m.Apply(s2)
		assert.Equal(t, s1, s2)
	}
}

func TestSetChangeReversed(t *testing.T) {
	c := NewSetChange([]int{1}, []int{2})
	s := setOf(1, 9)
	c.Apply(s)
	c.Reversed().Apply(s)
	assert.Equal(t, setOf(1, 9), s)
}

func TestMapSetChange(t *testing.T) {
	c := NewSetChange([]int{1}, []int{2})
	m := MapSetChange(c, func(i int) string {
		return string(rune('a' + i))
	})
	_, removed := m.Removed["b"]
	_, inserted := m.Inserted["c"]
	assert.True(t, removed)
	assert.True(t, inserted)
}
