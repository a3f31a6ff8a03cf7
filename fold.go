package gluekit

import (
	"golang.org/x/exp/constraints"

	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/signal"
	"github.com/attaswift/gluekit/utils"
)

// foldedSet reduces a set to a scalar with an invertible accumulator:
// add folds an element in, remove folds it back out. While active only
// the accumulator moves; while inactive every pull refolds from scratch.
type foldedSet[E comparable, B any] struct {
	src    SetObservable[E]
	zero   B
	add    func(B, E) B
	remove func(B, E) B

	state    TransactionState[change.ValueChange[B]]
	upstream *signal.Connection
	acc      B
}

// FoldSet derives the reduction of the source set under an invertible
// fold. remove must undo add for the same element.
func FoldSet[E comparable, B any](src SetObservable[E], zero B, add, remove func(B, E) B) ValueObservable[B] {
	f := &foldedSet[E, B]{src: src, zero: zero, add: add, remove: remove}
	f.state.OnFirstObserver = f.activate
	f.state.OnLastObserver = f.deactivate
	return f
}

func (f *foldedSet[E, B]) refold() B {
	acc := f.zero
	for e := range f.src.Get() {
		acc = f.add(acc, e)
	}
	return acc
}

func (f *foldedSet[E, B]) Get() B {
	if f.upstream != nil {
		return f.acc
	}
	return f.refold()
}

func (f *foldedSet[E, B]) Add(o Observer[change.ValueChange[B]]) *signal.Connection {
	return f.state.Add(o)
}

func (f *foldedSet[E, B]) activate() {
	f.acc = f.refold()
	f.upstream = f.src.Add(&ObserverFuncs[change.SetChange[E]]{
		OnBegan:   f.state.Begin,
		OnChanged: f.apply,
		OnEnded:   f.state.End,
	})
}

func (f *foldedSet[E, B]) deactivate() {
	f.upstream.Disconnect()
	f.upstream = nil
	f.acc = f.zero
}

func (f *foldedSet[E, B]) apply(c change.SetChange[E]) {
	old := f.acc
	for e := range c.Removed {
		f.acc = f.remove(f.acc, e)
	}
	for e := range c.Inserted {
		f.acc = f.add(f.acc, e)
	}
	f.state.Send(change.NewValueChange(old, f.acc))
}

// foldedArray is the sequence counterpart; the fold must be commutative
// in the elements since edits fold out old spans and fold in new ones
// without regard to position.
type foldedArray[E, B any] struct {
	src    ArrayObservable[E]
	zero   B
	add    func(B, E) B
	remove func(B, E) B

	state    TransactionState[change.ValueChange[B]]
	upstream *signal.Connection
	acc      B
}

// FoldArray derives the reduction of the source sequence's elements under
// a commutative, invertible fold.
func FoldArray[E, B any](src ArrayObservable[E], zero B, add, remove func(B, E) B) ValueObservable[B] {
	f := &foldedArray[E, B]{src: src, zero: zero, add: add, remove: remove}
	f.state.OnFirstObserver = f.activate
	f.state.OnLastObserver = f.deactivate
	return f
}

func (f *foldedArray[E, B]) refold() B {
	acc := f.zero
	for _, e := range f.src.Slice(0, f.src.Count()) {
		acc = f.add(acc, e)
	}
	return acc
}

func (f *foldedArray[E, B]) Get() B {
	if f.upstream != nil {
		return f.acc
	}
	return f.refold()
}

func (f *foldedArray[E, B]) Add(o Observer[change.ValueChange[B]]) *signal.Connection {
	return f.state.Add(o)
}

func (f *foldedArray[E, B]) activate() {
	f.acc = f.refold()
	f.upstream = f.src.Add(&ObserverFuncs[change.ArrayChange[E]]{
		OnBegan:   f.state.Begin,
		OnChanged: f.apply,
		OnEnded:   f.state.End,
	})
}

func (f *foldedArray[E, B]) deactivate() {
	f.upstream.Disconnect()
	f.upstream = nil
	f.acc = f.zero
}

func (f *foldedArray[E, B]) apply(c change.ArrayChange[E]) {
	old := f.acc
	for _, m := range c.Mods() {
		for _, e := range m.Old {
			f.acc = f.remove(f.acc, e)
		}
		for _, e := range m.New {
			f.acc = f.add(f.acc, e)
		}
	}
	f.state.Send(change.NewValueChange(old, f.acc))
}

// Number covers the element types the arithmetic folds accept.
type Number interface {
	constraints.Integer | constraints.Float
}

// SumOfSet derives the sum of the source set's elements.
func SumOfSet[E Number](src SetObservable[E]) ValueObservable[E] {
	return FoldSet(src, 0,
		func(acc, e E) E { return acc + e },
		func(acc, e E) E { return acc - e })
}

// SumOfArray derives the sum of the source sequence's elements.
func SumOfArray[E Number](src ArrayObservable[E]) ValueObservable[E] {
	return FoldArray(src, 0,
		func(acc, e E) E { return acc + e },
		func(acc, e E) E { return acc - e })
}

// CountOf derives the source set's element count.
func CountOf[E comparable](src SetObservable[E]) ValueObservable[int] {
	return FoldSet(src, 0,
		func(acc int, _ E) int { return acc + 1 },
		func(acc int, _ E) int { return acc - 1 })
}

// extremeOfSet tracks the minimum or maximum of a set. Removals are lazy:
// departed elements are remembered and skimmed off the heap top when they
// surface, keeping updates O(log n) amortized.
type extremeOfSet[E constraints.Ordered] struct {
	src SetObservable[E]
	max bool

	state    TransactionState[change.ValueChange[E]]
	upstream *signal.Connection
	heap     utils.Heap[E]
	gone     map[E]bool
}

// MinOf derives the smallest element of the source set; an empty set
// reads as the zero value.
func MinOf[E constraints.Ordered](src SetObservable[E]) ValueObservable[E] {
	e := &extremeOfSet[E]{src: src}
	e.state.OnFirstObserver = e.activate
	e.state.OnLastObserver = e.deactivate
	return e
}

// MaxOf derives the largest element of the source set; an empty set reads
// as the zero value.
func MaxOf[E constraints.Ordered](src SetObservable[E]) ValueObservable[E] {
	e := &extremeOfSet[E]{src: src, max: true}
	e.state.OnFirstObserver = e.activate
	e.state.OnLastObserver = e.deactivate
	return e
}

func (x *extremeOfSet[E]) scan() E {
	var best E
	first := true
	for e := range x.src.Get() {
		if first || (x.max && e > best) || (!x.max && e < best) {
			best = e
			first = false
		}
	}
	return best
}

func (x *extremeOfSet[E]) Get() E {
	if x.upstream != nil {
		return x.top()
	}
	return x.scan()
}

func (x *extremeOfSet[E]) Add(o Observer[change.ValueChange[E]]) *signal.Connection {
	return x.state.Add(o)
}

func (x *extremeOfSet[E]) activate() {
	x.heap = utils.Heap[E]{Max: x.max}
	x.gone = make(map[E]bool)
	for e := range x.src.Get() {
		x.heap.Push(e)
	}
	x.upstream = x.src.Add(&ObserverFuncs[change.SetChange[E]]{
		OnBegan:   x.state.Begin,
		OnChanged: x.apply,
		OnEnded:   x.state.End,
	})
}

func (x *extremeOfSet[E]) deactivate() {
	x.upstream.Disconnect()
	x.upstream = nil
	x.heap = utils.Heap[E]{}
	x.gone = nil
}

// top skims stale entries off the heap and returns the live extremum, or
// the zero value when nothing is left.
func (x *extremeOfSet[E]) top() E {
	for x.heap.Len() > 0 && x.gone[x.heap.Peek()] {
		delete(x.gone, x.heap.Pop())
	}
	if x.heap.Len() == 0 {
		var zero E
		return zero
	}
	return x.heap.Peek()
}

func (x *extremeOfSet[E]) apply(c change.SetChange[E]) {
	old := x.top()
	for e := range c.Removed {
		x.gone[e] = true
	}
	for e := range c.Inserted {
		if x.gone[e] {
			delete(x.gone, e)
		} else {
			x.heap.Push(e)
		}
	}
	x.state.Send(change.NewValueChange(old, x.top()))
}
