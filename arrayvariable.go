package gluekit

import (
	"github.com/attaswift/gluekit/btree"
	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/signal"
)

// ArrayVariable is an updatable observable sequence backed by the ordered
// indexed container, so large collections with frequent localized edits
// stay O(log n) per operation.
type ArrayVariable[E any] struct {
	tree  *btree.List[E]
	state TransactionState[change.ArrayChange[E]]
}

func NewArrayVariable[E any](elems ...E) *ArrayVariable[E] {
	return &ArrayVariable[E]{tree: btree.Of(elems...)}
}

func (a *ArrayVariable[E]) Count() int {
	return a.tree.Count()
}

func (a *ArrayVariable[E]) Get(i int) E {
	return a.tree.Get(i)
}

func (a *ArrayVariable[E]) Slice(lo, hi int) []E {
	return a.tree.Slice(lo, hi)
}

// RefAt exposes the container handle of the element at i, for callers
// that need O(log n) position lookups later.
func (a *ArrayVariable[E]) RefAt(i int) btree.Ref {
	return a.tree.RefAt(i)
}

// IndexOf answers the current position of a previously obtained handle.
func (a *ArrayVariable[E]) IndexOf(r btree.Ref) int {
	return a.tree.IndexOf(r)
}

func (a *ArrayVariable[E]) Set(i int, e E) {
	old := a.tree.Get(i)
	a.tree.Set(i, e)
	a.send(change.ReplaceMod(old, i, e))
}

func (a *ArrayVariable[E]) Insert(i int, e E) {
	n := a.tree.Count()
	a.tree.Insert(i, e)
	a.state.Send(change.SingleChange(n, change.InsertMod(e, i)))
}

func (a *ArrayVariable[E]) RemoveAt(i int) E {
	n := a.tree.Count()
	e := a.tree.RemoveAt(i)
	a.state.Send(change.SingleChange(n, change.RemoveMod(e, i)))
	return e
}

// ReplaceSlice replaces [lo, hi) with new elements in one reported
// modification.
func (a *ArrayVariable[E]) ReplaceSlice(lo, hi int, new []E) {
	old := a.tree.Slice(lo, hi)
	n := a.tree.Count()
	c := change.SingleChange(n, change.ReplaceSliceMod(old, lo, new))
	if c.IsEmpty() {
		return
	}
	for range old {
		a.tree.RemoveAt(lo)
	}
	for k, e := range new {
		a.tree.Insert(lo+k, e)
	}
	a.state.Send(c)
}

func (a *ArrayVariable[E]) send(m change.ArrayModification[E]) {
	n := a.tree.Count() - m.DeltaCount()
	a.state.Send(change.SingleChange(n, m))
}

// Apply splices an externally produced change into the sequence and
// reports it.
func (a *ArrayVariable[E]) Apply(c change.ArrayChange[E]) {
	if c.IsEmpty() {
		return
	}
	a.tree.ApplyChange(c)
	a.state.Send(c)
}

func (a *ArrayVariable[E]) Begin() {
	a.state.Begin()
}

func (a *ArrayVariable[E]) End() {
	a.state.End()
}

func (a *ArrayVariable[E]) Add(o Observer[change.ArrayChange[E]]) *signal.Connection {
	return a.state.Add(o)
}

func (a *ArrayVariable[E]) ObservableStats() Stats {
	return Stats{
		Observers: a.state.ObserverCount(),
		Depth:     a.state.Depth(),
		Sends:     a.state.Sends(),
		Elements:  a.tree.Count(),
	}
}
