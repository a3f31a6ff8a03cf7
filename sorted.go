package gluekit

import (
	"sort"

	"golang.org/x/exp/constraints"

	"github.com/attaswift/gluekit/btree"
	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/gluekit_errors"
	"github.com/attaswift/gluekit/signal"
	"github.com/pkg/errors"
)

// sortedSet projects a set into a sorted sequence. While active the
// elements sit in the ordered indexed container with a handle kept per
// element, so a removal finds its position in O(log n) instead of a
// re-sort.
type sortedSet[E comparable] struct {
	src  SetObservable[E]
	less func(a, b E) bool

	state    TransactionState[change.ArrayChange[E]]
	upstream *signal.Connection
	tree     *btree.List[E]
	refs     map[E]btree.Ref
}

// SortedSet derives the ascending sequence of the source set's elements
// under less.
func SortedSet[E comparable](src SetObservable[E], less func(a, b E) bool) ArrayObservable[E] {
	s := &sortedSet[E]{src: src, less: less}
	s.state.OnFirstObserver = s.activate
	s.state.OnLastObserver = s.deactivate
	return s
}

// SortedSetOf is SortedSet with the natural ordering.
func SortedSetOf[E constraints.Ordered](src SetObservable[E]) ArrayObservable[E] {
	return SortedSet(src, func(a, b E) bool { return a < b })
}

func (s *sortedSet[E]) snapshot() []E {
	contents := s.src.Get()
	out := make([]E, 0, len(contents))
	for e := range contents {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return s.less(out[i], out[j]) })
	return out
}

func (s *sortedSet[E]) Count() int {
	if s.upstream != nil {
		return s.tree.Count()
	}
	return s.src.Count()
}

func (s *sortedSet[E]) Get(i int) E {
	if s.upstream != nil {
		return s.tree.Get(i)
	}
	snap := s.snapshot()
	if i < 0 || i >= len(snap) {
		panic(errors.Wrapf(gluekit_errors.ErrIndexRange,
			"index %d on %d elements", i, len(snap)))
	}
	return snap[i]
}

func (s *sortedSet[E]) Slice(lo, hi int) []E {
	if s.upstream != nil {
		return s.tree.Slice(lo, hi)
	}
	snap := s.snapshot()
	if lo < 0 || hi < lo || hi > len(snap) {
		panic(errors.Wrapf(gluekit_errors.ErrIndexRange,
			"slice %d..<%d on %d elements", lo, hi, len(snap)))
	}
	return snap[lo:hi]
}

func (s *sortedSet[E]) Add(o Observer[change.ArrayChange[E]]) *signal.Connection {
	return s.state.Add(o)
}

func (s *sortedSet[E]) activate() {
	s.tree = btree.New[E]()
	s.refs = make(map[E]btree.Ref)
	for i, e := range s.snapshot() {
		s.refs[e] = s.tree.Insert(i, e)
	}
	s.upstream = s.src.Add(&ObserverFuncs[change.SetChange[E]]{
		OnBegan:   s.state.Begin,
		OnChanged: s.apply,
		OnEnded:   s.state.End,
	})
}

func (s *sortedSet[E]) deactivate() {
	s.upstream.Disconnect()
	s.upstream = nil
	s.tree = nil
	s.refs = nil
}

// insertionIndex is the position of the first element not less than e.
func (s *sortedSet[E]) insertionIndex(e E) int {
	lo, hi := 0, s.tree.Count()
	for lo < hi {
		mid := (lo + hi) / 2
		if s.less(s.tree.Get(mid), e) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (s *sortedSet[E]) apply(c change.SetChange[E]) {
	out := change.NewArrayChange[E](s.tree.Count())
	for e := range c.Removed {
		ref, ok := s.refs[e]
		if !ok {
			continue
		}
		i := s.tree.IndexOf(ref)
		s.tree.RemoveAt(i)
		delete(s.refs, e)
		out.Add(change.RemoveMod(e, i))
	}
	for e := range c.Inserted {
		if _, ok := s.refs[e]; ok {
			continue
		}
		i := s.insertionIndex(e)
		s.refs[e] = s.tree.Insert(i, e)
		out.Add(change.InsertMod(e, i))
	}
	s.state.Send(out)
}
