package gluekit

import (
	"testing"

	"github.com/attaswift/gluekit/change"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariable(t *testing.T) {
	v := NewVariable(1)
	assert.Equal(t, 1, v.Get())

	var got []change.ValueChange[int]
	v.Add(OnChange(func(c change.ValueChange[int]) { got = append(got, c) }))

	v.Set(2)
	require.Len(t, got, 1)
	assert.Equal(t, change.NewValueChange(1, 2), got[0])

	v.Apply(change.NewValueChange(2, 5))
	assert.Equal(t, 5, v.Get())
	require.Len(t, got, 2)

	// a change not chained onto the current value is a broken contract
	assert.Panics(t, func() { v.Apply(change.NewValueChange(3, 7)) })

	st := v.ObservableStats()
	assert.Equal(t, 1, st.Observers)
	assert.Equal(t, uint64(2), st.Sends)
	assert.Equal(t, 1, st.Elements)
}

func TestSetVariable(t *testing.T) {
	s := NewSetVariable(1, 2, 3)
	assert.Equal(t, 3, s.Count())
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(9))

	mirror := s.Get()
	s.Add(OnChange(func(c change.SetChange[int]) { c.Apply(mirror) }))

	s.Insert(4)
	s.Remove(1)
	assert.Equal(t, s.Get(), mirror)

	// present insert and absent remove report nothing
	before := s.ObservableStats().Sends
	s.Insert(4)
	s.Remove(99)
	assert.Equal(t, before, s.ObservableStats().Sends)

	s.Apply(change.NewSetChange([]int{2}, []int{7, 8}))
	assert.Equal(t, s.Get(), mirror)
	assert.ElementsMatch(t, []int{3, 4, 7, 8}, keysOf(s.Get()))

	// Get hands out a copy
	delete(mirror, 3)
	assert.True(t, s.Contains(3))
}

func keysOf[E comparable](m map[E]struct{}) []E {
	out := make([]E, 0, len(m))
	for e := range m {
		out = append(out, e)
	}
	return out
}

func TestArrayVariable(t *testing.T) {
	a := NewArrayVariable(10, 20, 30)
	assert.Equal(t, 3, a.Count())
	assert.Equal(t, 20, a.Get(1))
	assert.Equal(t, []int{20, 30}, a.Slice(1, 3))

	mirror := a.Slice(0, a.Count())
	a.Add(OnChange(func(c change.ArrayChange[int]) { mirror = c.Apply(mirror) }))

	a.Insert(1, 15)
	a.Set(0, 5)
	assert.Equal(t, 30, a.RemoveAt(3))
	a.ReplaceSlice(1, 3, []int{40, 50, 60})
	assert.Equal(t, []int{5, 40, 50, 60}, a.Slice(0, a.Count()))
	assert.Equal(t, a.Slice(0, a.Count()), mirror)

	// replacing a slice with identical contents reports nothing
	before := a.ObservableStats().Sends
	a.ReplaceSlice(1, 2, []int{40})
	assert.Equal(t, before, a.ObservableStats().Sends)

	a.Apply(change.SingleChange(4, change.RemoveMod(5, 0)))
	assert.Equal(t, []int{40, 50, 60}, mirror)
	assert.Equal(t, mirror, a.Slice(0, a.Count()))
}

func TestArrayVariableRefs(t *testing.T) {
	a := NewArrayVariable(10, 20, 30)
	r := a.RefAt(1)
	a.Insert(0, 5)
	assert.Equal(t, 2, a.IndexOf(r))
	a.RemoveAt(0)
	a.RemoveAt(0)
	assert.Equal(t, 0, a.IndexOf(r))
	assert.Equal(t, 20, a.Get(0))
}

func TestArrayVariableTransaction(t *testing.T) {
	a := NewArrayVariable(1, 2, 3)
	var got []change.ArrayChange[int]
	a.Add(OnChange(func(c change.ArrayChange[int]) { got = append(got, c) }))

	a.Begin()
	a.Insert(2, 4)
	a.RemoveAt(0)
	a.End()

	// the two edits arrive as one merged change
	require.Len(t, got, 1)
	assert.Equal(t, []int{2, 4, 3}, got[0].Apply([]int{1, 2, 3}))
	require.Len(t, got[0].Mods(), 2)
	assert.Equal(t, change.RemoveMod(1, 0), got[0].Mods()[0])
	assert.Equal(t, change.InsertMod(4, 1), got[0].Mods()[1])
}
