package gluekit

import (
	"strconv"
	"strings"
	"testing"

	"github.com/attaswift/gluekit/change"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// arrayMirror follows a derived sequence by applying its reported changes
// to a plain slice; every test asserts the mirror against a fresh pull.
type arrayMirror[E any] struct {
	elems []E
}

func (m *arrayMirror[E]) follow(src ArrayObservable[E]) {
	m.elems = src.Slice(0, src.Count())
	src.Add(OnChange(func(c change.ArrayChange[E]) {
		m.elems = c.Apply(m.elems)
	}))
}

func pull[E any](src ArrayObservable[E]) []E {
	return src.Slice(0, src.Count())
}

func TestMapValue(t *testing.T) {
	v := NewVariable(3)
	doubled := MapValue(v, func(a int) int { return a * 2 })
	assert.Equal(t, 6, doubled.Get())
	assert.Equal(t, 0, v.ObservableStats().Observers, "no upstream subscription before observers")

	var got []change.ValueChange[int]
	conn := doubled.Add(OnChange(func(c change.ValueChange[int]) { got = append(got, c) }))
	assert.Equal(t, 1, v.ObservableStats().Observers)

	v.Set(5)
	require.Len(t, got, 1)
	assert.Equal(t, change.NewValueChange(6, 10), got[0])
	assert.Equal(t, 10, doubled.Get())

	conn.Disconnect()
	assert.Equal(t, 0, v.ObservableStats().Observers)
	v.Set(7)
	assert.Equal(t, 14, doubled.Get())
	require.Len(t, got, 1)
}

func TestDistinctValue(t *testing.T) {
	v := NewVariable("Go")
	d := DistinctValue(v, strings.EqualFold)

	var got []change.ValueChange[string]
	d.Add(OnChange(func(c change.ValueChange[string]) { got = append(got, c) }))

	v.Set("GO") // same under the equality, suppressed
	assert.Empty(t, got)
	v.Set("rust")
	require.Len(t, got, 1)
	assert.Equal(t, change.NewValueChange("GO", "rust"), got[0])
	assert.Equal(t, "rust", d.Get())
}

func TestMapArray(t *testing.T) {
	a := NewArrayVariable(1, 2, 3)
	strs := MapArray(a, strconv.Itoa)
	assert.Equal(t, []string{"1", "2", "3"}, pull(strs))
	assert.Equal(t, "2", strs.Get(1))
	assert.Equal(t, 3, strs.Count())

	var m arrayMirror[string]
	m.follow(strs)

	a.Insert(1, 9)
	a.RemoveAt(0)
	a.Set(0, 5)
	assert.Equal(t, []string{"5", "2", "3"}, m.elems)
	assert.Equal(t, pull(strs), m.elems)
}

func TestCachedArrayMap(t *testing.T) {
	a := NewArrayVariable(1, 2, 3)
	calls := 0
	cached := CachedArrayMap(a, func(e int) int {
		calls++
		return e * 10
	}, 16)

	assert.Equal(t, 10, cached.Get(0))
	assert.Equal(t, 10, cached.Get(0))
	assert.Equal(t, 1, calls, "memoized while cached")
	assert.Equal(t, []int{10, 20, 30}, pull(cached))
	assert.Equal(t, 3, calls)

	var m arrayMirror[int]
	m.follow(cached)
	a.Insert(3, 4)
	assert.Equal(t, []int{10, 20, 30, 40}, m.elems)
	assert.Equal(t, pull(cached), m.elems)
}

func TestFilterArray(t *testing.T) {
	a := NewArrayVariable(1, 2, 3, 4)
	even := FilterArray(a, func(e int) bool { return e%2 == 0 })

	// pulls work without any observer
	assert.Equal(t, []int{2, 4}, pull(even))
	assert.Equal(t, 2, even.Count())
	assert.Equal(t, 4, even.Get(1))
	assert.Panics(t, func() { even.Get(2) })
	assert.Panics(t, func() { even.Get(-1) })

	var m arrayMirror[int]
	m.follow(even)

	a.Set(0, 10) // odd becomes even: appears downstream
	assert.Equal(t, []int{10, 2, 4}, m.elems)
	a.Set(1, 7) // even becomes odd: disappears
	assert.Equal(t, []int{10, 4}, m.elems)
	a.Insert(2, 8)
	assert.Equal(t, []int{10, 8, 4}, m.elems)
	a.RemoveAt(0)
	assert.Equal(t, []int{8, 4}, m.elems)
	a.ReplaceSlice(0, 3, []int{5, 6})
	assert.Equal(t, []int{6, 4}, m.elems)
	assert.Equal(t, pull(even), m.elems)

	// a transaction's edits arrive as one merged change
	var changes int
	even.Add(OnChange(func(change.ArrayChange[int]) { changes++ }))
	a.Begin()
	a.Insert(0, 2)
	a.Insert(0, 4)
	a.End()
	assert.Equal(t, 1, changes)
	assert.Equal(t, []int{4, 2, 6, 4}, m.elems)
}

func TestFlatMapArray(t *testing.T) {
	nested := map[int]*ArrayVariable[string]{
		1: NewArrayVariable("a", "b"),
		2: NewArrayVariable("c"),
		3: NewArrayVariable("d", "e"),
	}
	src := NewArrayVariable(1, 2)
	flat := FlatMapArray(src, func(a int) ArrayObservable[string] { return nested[a] })

	assert.Equal(t, []string{"a", "b", "c"}, pull(flat))
	assert.Equal(t, "c", flat.Get(2))
	assert.Equal(t, []string{"b", "c"}, flat.Slice(1, 3))
	assert.Panics(t, func() { flat.Get(3) })

	var m arrayMirror[string]
	m.follow(flat)

	// an edit inside a nested sequence lands at its downstream offset
	nested[2].Insert(1, "x")
	assert.Equal(t, []string{"a", "b", "c", "x"}, m.elems)
	nested[1].RemoveAt(0)
	assert.Equal(t, []string{"b", "c", "x"}, m.elems)

	// an upstream edit swaps whole nested spans
	src.Insert(1, 3)
	assert.Equal(t, []string{"b", "d", "e", "c", "x"}, m.elems)
	src.RemoveAt(2)
	assert.Equal(t, []string{"b", "d", "e"}, m.elems)
	assert.Equal(t, pull(flat), m.elems)

	// a removed element's nested sequence is no longer watched
	nested[2].Insert(0, "zzz")
	assert.Equal(t, []string{"b", "d", "e"}, m.elems)
}

func TestConcatArrays(t *testing.T) {
	head := NewArrayVariable(1, 2)
	tail := NewArrayVariable(10, 20)
	cat := ConcatArrays[int](head, tail)

	assert.Equal(t, []int{1, 2, 10, 20}, pull(cat))
	assert.Equal(t, 10, cat.Get(2))
	assert.Equal(t, []int{2, 10}, cat.Slice(1, 3))

	var m arrayMirror[int]
	m.follow(cat)

	head.Insert(2, 3)
	assert.Equal(t, []int{1, 2, 3, 10, 20}, m.elems)
	tail.Insert(0, 5)
	assert.Equal(t, []int{1, 2, 3, 5, 10, 20}, m.elems)
	head.RemoveAt(0)
	tail.RemoveAt(2)
	assert.Equal(t, []int{2, 3, 5, 10}, m.elems)
	assert.Equal(t, pull(cat), m.elems)
}

func TestMapSet(t *testing.T) {
	src := NewSetVariable(1, 2, 3)
	parity := MapSet(src, func(a int) int { return a % 2 })

	assert.Equal(t, 2, parity.Count())
	assert.True(t, parity.Contains(0))
	assert.True(t, parity.Contains(1))

	mirror := parity.Get()
	var changes int
	parity.Add(OnChange(func(c change.SetChange[int]) {
		changes++
		c.Apply(mirror)
	}))

	// 3 still maps to 1, so removing 1 changes nothing downstream
	src.Remove(1)
	assert.Equal(t, 0, changes)
	src.Remove(3)
	assert.Equal(t, 1, changes)
	assert.Equal(t, map[int]struct{}{0: {}}, mirror)

	src.Insert(5)
	assert.Equal(t, map[int]struct{}{0: {}, 1: {}}, mirror)
	assert.Equal(t, parity.Get(), mirror)
}

func TestSortedSet(t *testing.T) {
	src := NewSetVariable(5, 1, 3)
	sorted := SortedSetOf[int](src)

	assert.Equal(t, []int{1, 3, 5}, pull(sorted))
	assert.Equal(t, 3, sorted.Get(1))
	assert.Panics(t, func() { sorted.Get(3) })
	assert.Panics(t, func() { sorted.Slice(1, 4) })

	var m arrayMirror[int]
	m.follow(sorted)

	src.Insert(2)
	assert.Equal(t, []int{1, 2, 3, 5}, m.elems)
	src.Insert(9)
	src.Remove(3)
	assert.Equal(t, []int{1, 2, 5, 9}, m.elems)
	src.Insert(0)
	assert.Equal(t, []int{0, 1, 2, 5, 9}, m.elems)
	assert.Equal(t, pull(sorted), m.elems)
}

func TestSortedSetCustomOrder(t *testing.T) {
	src := NewSetVariable("bb", "a", "ccc")
	byLen := SortedSet(src, func(a, b string) bool { return len(a) < len(b) })
	assert.Equal(t, []string{"a", "bb", "ccc"}, pull(byLen))
}

func TestSumOfSet(t *testing.T) {
	src := NewSetVariable(1, 2, 3)
	sum := SumOfSet(src)
	assert.Equal(t, 6, sum.Get())

	var got []change.ValueChange[int]
	sum.Add(OnChange(func(c change.ValueChange[int]) { got = append(got, c) }))

	src.Insert(10)
	src.Remove(2)
	require.Len(t, got, 2)
	assert.Equal(t, change.NewValueChange(6, 16), got[0])
	assert.Equal(t, change.NewValueChange(16, 14), got[1])
	assert.Equal(t, 14, sum.Get())
}

func TestSumOfArray(t *testing.T) {
	a := NewArrayVariable(1.5, 2.5)
	sum := SumOfArray[float64](a)
	assert.Equal(t, 4.0, sum.Get())

	var last change.ValueChange[float64]
	sum.Add(OnChange(func(c change.ValueChange[float64]) { last = c }))

	a.Set(0, 3.5)
	assert.Equal(t, change.NewValueChange(4.0, 6.0), last)
	a.RemoveAt(1)
	assert.Equal(t, 3.5, sum.Get())
}

func TestCountOf(t *testing.T) {
	src := NewSetVariable("a", "b")
	n := CountOf[string](src)
	assert.Equal(t, 2, n.Get())

	n.Add(OnChange(func(change.ValueChange[int]) {}))
	src.Insert("c")
	src.Insert("c")
	src.Remove("a")
	assert.Equal(t, 2, n.Get())
}

func TestFoldArray(t *testing.T) {
	a := NewArrayVariable("x", "y")
	// length sum is commutative and invertible over the elements
	total := FoldArray(a, 0,
		func(acc int, e string) int { return acc + len(e) },
		func(acc int, e string) int { return acc - len(e) })
	assert.Equal(t, 2, total.Get())

	total.Add(OnChange(func(change.ValueChange[int]) {}))
	a.Insert(0, "abc")
	assert.Equal(t, 5, total.Get())
	a.ReplaceSlice(1, 3, []string{"zz"})
	assert.Equal(t, 5, total.Get())
}

func TestMinOfMaxOf(t *testing.T) {
	src := NewSetVariable(5, 1, 9)
	min := MinOf[int](src)
	max := MaxOf[int](src)
	assert.Equal(t, 1, min.Get())
	assert.Equal(t, 9, max.Get())

	var minGot, maxGot []change.ValueChange[int]
	min.Add(OnChange(func(c change.ValueChange[int]) { minGot = append(minGot, c) }))
	max.Add(OnChange(func(c change.ValueChange[int]) { maxGot = append(maxGot, c) }))

	// removing the current extremum exposes the runner-up
	src.Remove(1)
	assert.Equal(t, 5, min.Get())
	require.Len(t, minGot, 1)
	assert.Equal(t, change.NewValueChange(1, 5), minGot[0])

	src.Insert(20)
	assert.Equal(t, 20, max.Get())
	require.Len(t, maxGot, 1)
	assert.Equal(t, change.NewValueChange(9, 20), maxGot[0])

	src.Remove(20)
	src.Remove(9)
	src.Remove(5)
	// an empty set reads as the zero value
	assert.Equal(t, 0, min.Get())
	assert.Equal(t, 0, max.Get())
}
