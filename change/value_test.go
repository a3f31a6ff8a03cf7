package change

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueChangeMerge(t *testing.T) {
	a := NewValueChange(1, 2)
	b := NewValueChange(2, 5)
	m := a.Merge(b)
	assert.Equal(t, 1, m.Old)
	assert.Equal(t, 5, m.New)
	assert.Equal(t, b.Apply(a.Apply(1)), m.Apply(1))
}

func TestValueChangeMergeUnchained(t *testing.T) {
	a := NewValueChange(1, 2)
	b := NewValueChange(3, 4)
	assert.Panics(t, func() { a.Merge(b) })
}

func TestValueChangeReversed(t *testing.T) {
	c := NewValueChange("x", "y")
	r := c.Reversed()
	assert.Equal(t, "y", r.Old)
	assert.Equal(t, "x", r.New)
	assert.Equal(t, c, r.Reversed())
}

func TestValueChangeIsEmpty(t *testing.T) {
	assert.True(t, NewValueChange(7, 7).IsEmpty())
	assert.False(t, NewValueChange(7, 8).IsEmpty())
}

func TestMapValueChange(t *testing.T) {
	c := NewValueChange(2, 3)
	m := MapValueChange(c, func(i int) int { return i * 10 })
	assert.Equal(t, 20, m.Old)
	assert.Equal(t, 30, m.New)
}
