// Package btree implements the ordered indexed container backing
// sequence-typed observables: a counted B-tree storing owned elements in
// sequence order, with positional get/set/insert/remove, slice reads and
// reverse position lookup, all in O(log n).
package btree

import (
	"reflect"

	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/gluekit_errors"
	"github.com/pkg/errors"
)

// List is a position-indexed sequence of elements of type E.
type List[E any] struct {
	nodes     []node
	freeNodes []int32
	slots     []slot[E]
	freeSlots []int32
	root      int32
}

// Ref is a stable handle of one element, valid until that element is
// removed. It does not keep anything alive; it is only a position lookup
// token. The zero Ref is invalid.
type Ref struct {
	id int32 // slot id + 1
}

func (r Ref) IsValid() bool {
	return r.id != 0
}

func New[E any]() *List[E] {
	l := &List[E]{}
	l.root = l.newNode(true)
	return l
}

// Of builds a list holding the given elements.
func Of[E any](elems ...E) *List[E] {
	l := New[E]()
	for i, e := range elems {
		l.Insert(i, e)
	}
	return l
}

func (l *List[E]) Count() int {
	return l.nodes[l.root].count
}

func (l *List[E]) checkIndex(i, upper int) {
	if i < 0 || i >= upper {
		panic(errors.Wrapf(gluekit_errors.ErrIndexRange,
			"index %d on %d elements", i, l.Count()))
	}
}

// locate descends to the leaf holding position i. Requires i < Count().
func (l *List[E]) locate(i int) (int32, int) {
	h := l.root
	for !l.nodes[h].leaf {
		for _, k := range l.nodes[h].kids {
			if c := l.nodes[k].count; i < c {
				h = k
				break
			} else {
				i -= c
			}
		}
	}
	return h, i
}

func (l *List[E]) Get(i int) E {
	l.checkIndex(i, l.Count())
	h, off := l.locate(i)
	return l.slots[l.nodes[h].kids[off]].elem
}

func (l *List[E]) Set(i int, e E) {
	l.checkIndex(i, l.Count())
	h, off := l.locate(i)
	l.slots[l.nodes[h].kids[off]].elem = e
}

// RefAt returns the handle of the element currently at position i.
func (l *List[E]) RefAt(i int) Ref {
	l.checkIndex(i, l.Count())
	h, off := l.locate(i)
	return Ref{id: l.nodes[h].kids[off] + 1}
}

// Insert places e at position i and returns its handle.
func (l *List[E]) Insert(i int, e E) Ref {
	l.checkIndex(i, l.Count()+1)
	id := l.newSlot(e)

	h := l.root
	for !l.nodes[h].leaf {
		kids := l.nodes[h].kids
		next := kids[len(kids)-1]
		for _, k := range kids {
			if c := l.nodes[k].count; i <= c {
				next = k
				break
			} else {
				i -= c
			}
		}
		h = next
	}

	kids := l.nodes[h].kids
	kids = append(kids, 0)
	copy(kids[i+1:], kids[i:])
	kids[i] = id
	l.nodes[h].kids = kids
	l.slots[id].leaf = h

	l.addCount(h, 1)
	l.splitUp(h)
	return Ref{id: id + 1}
}

// RemoveAt removes and returns the element at position i. Its handle
// becomes invalid.
func (l *List[E]) RemoveAt(i int) E {
	l.checkIndex(i, l.Count())
	h, off := l.locate(i)

	kids := l.nodes[h].kids
	id := kids[off]
	e := l.slots[id].elem
	l.nodes[h].kids = append(kids[:off], kids[off+1:]...)
	l.freeSlot(id)

	l.addCount(h, -1)
	l.rebalanceUp(h)
	return e
}

// IndexOf answers "what is this element's current position" by ascending
// from the element's leaf, summing the counts of preceding siblings.
func (l *List[E]) IndexOf(r Ref) int {
	if !r.IsValid() {
		panic(errors.Wrap(gluekit_errors.ErrIndexRange, "invalid element ref"))
	}
	id := r.id - 1
	h := l.slots[id].leaf
	i := 0
	for off, kid := range l.nodes[h].kids {
		if kid == id {
			i = off
			break
		}
	}
	for h != l.root {
		p := l.nodes[h].parent
		for _, k := range l.nodes[p].kids {
			if k == h {
				break
			}
			i += l.nodes[k].count
		}
		h = p
	}
	return i
}

// Slice copies out the elements in [lo, hi).
func (l *List[E]) Slice(lo, hi int) []E {
	if lo < 0 || hi < lo || hi > l.Count() {
		panic(errors.Wrapf(gluekit_errors.ErrIndexRange,
			"slice %d..<%d on %d elements", lo, hi, l.Count()))
	}
	out := make([]E, 0, hi-lo)
	l.collect(l.root, lo, hi, &out)
	return out
}

func (l *List[E]) collect(h int32, lo, hi int, out *[]E) {
	n := l.nodes[h]
	if n.leaf {
		for _, id := range n.kids[lo:hi] {
			*out = append(*out, l.slots[id].elem)
		}
		return
	}
	at := 0
	for _, k := range n.kids {
		c := l.nodes[k].count
		klo, khi := lo-at, hi-at
		if klo < c && khi > 0 {
			if klo < 0 {
				klo = 0
			}
			if khi > c {
				khi = c
			}
			l.collect(k, klo, khi, out)
		}
		at += c
	}
}

// Elems copies out all elements in order.
func (l *List[E]) Elems() []E {
	return l.Slice(0, l.Count())
}

// ForEach visits the elements in order until f returns false.
func (l *List[E]) ForEach(f func(e E) bool) {
	l.visit(l.root, f)
}

func (l *List[E]) visit(h int32, f func(e E) bool) bool {
	n := l.nodes[h]
	if n.leaf {
		for _, id := range n.kids {
			if !f(l.slots[id].elem) {
				return false
			}
		}
		return true
	}
	for _, k := range n.kids {
		if !l.visit(k, f) {
			return false
		}
	}
	return true
}

// ApplyChange splices a sequence change into the list, verifying each
// modification's stated old span against the actual contents.
func (l *List[E]) ApplyChange(c change.ArrayChange[E]) {
	if l.Count() != c.InitialCount() {
		panic(errors.Wrapf(gluekit_errors.ErrCountMismatch,
			"apply: %d elements, change expects %d", l.Count(), c.InitialCount()))
	}
	for _, m := range c.Mods() {
		if m.Index < 0 || m.Index+len(m.Old) > l.Count() {
			panic(errors.Wrapf(gluekit_errors.ErrIndexRange,
				"apply %s on %d elements", m, l.Count()))
		}
		actual := l.Slice(m.Index, m.Index+len(m.Old))
		for k := range m.Old {
			if !reflect.DeepEqual(m.Old[k], actual[k]) {
				panic(errors.Wrapf(gluekit_errors.ErrSpanMismatch,
					"apply %s: found %v", m, actual[k]))
			}
		}
		for range m.Old {
			l.RemoveAt(m.Index)
		}
		for k, e := range m.New {
			l.Insert(m.Index+k, e)
		}
	}
}
