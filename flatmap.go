package gluekit

import (
	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/gluekit_errors"
	"github.com/attaswift/gluekit/signal"
	"github.com/pkg/errors"
)

// flatEntry tracks one upstream element's nested sequence: its observable,
// the span length it currently occupies downstream, and the nested
// subscription held while the derived observable is active.
type flatEntry[B any] struct {
	obs  ArrayObservable[B]
	n    int
	conn *signal.Connection
}

// flatMappedArray concatenates the nested sequences of every upstream
// element. While active it tracks each element's downstream span so a
// nested change lands at the correct offset; while inactive every pull
// recomputes from upstream.
type flatMappedArray[A, B any] struct {
	src ArrayObservable[A]
	f   func(A) ArrayObservable[B]

	state    TransactionState[change.ArrayChange[B]]
	upstream *signal.Connection
	entries  []*flatEntry[B]
	total    int
}

// FlatMapArray derives the concatenation of f(e) over the source's
// elements, reacting both to upstream edits and to edits inside each
// nested sequence.
func FlatMapArray[A, B any](src ArrayObservable[A], f func(A) ArrayObservable[B]) ArrayObservable[B] {
	fm := &flatMappedArray[A, B]{src: src, f: f}
	fm.state.OnFirstObserver = fm.activate
	fm.state.OnLastObserver = fm.deactivate
	return fm
}

func (fm *flatMappedArray[A, B]) Count() int {
	if fm.upstream != nil {
		return fm.total
	}
	n := 0
	for _, a := range fm.src.Slice(0, fm.src.Count()) {
		n += fm.f(a).Count()
	}
	return n
}

func (fm *flatMappedArray[A, B]) Get(i int) B {
	out := fm.Slice(i, i+1)
	if len(out) == 0 {
		panic(errors.Wrapf(gluekit_errors.ErrIndexRange,
			"index %d on %d elements", i, fm.Count()))
	}
	return out[0]
}

func (fm *flatMappedArray[A, B]) Slice(lo, hi int) []B {
	out := make([]B, 0, hi-lo)
	at := 0
	for _, a := range fm.src.Slice(0, fm.src.Count()) {
		nested := fm.f(a)
		n := nested.Count()
		klo, khi := lo-at, hi-at
		if klo < n && khi > 0 {
			if klo < 0 {
				klo = 0
			}
			if khi > n {
				khi = n
			}
			out = append(out, nested.Slice(klo, khi)...)
		}
		at += n
	}
	return out
}

func (fm *flatMappedArray[A, B]) Add(o Observer[change.ArrayChange[B]]) *signal.Connection {
	return fm.state.Add(o)
}

func (fm *flatMappedArray[A, B]) offsetOf(e *flatEntry[B]) int {
	off := 0
	for _, x := range fm.entries {
		if x == e {
			break
		}
		off += x.n
	}
	return off
}

func (fm *flatMappedArray[A, B]) attach(a A) *flatEntry[B] {
	e := &flatEntry[B]{obs: fm.f(a)}
	e.n = e.obs.Count()
	e.conn = e.obs.Add(&ObserverFuncs[change.ArrayChange[B]]{
		OnBegan: fm.state.Begin,
		OnChanged: func(c change.ArrayChange[B]) {
			fm.nestedChanged(e, c)
		},
		OnEnded: fm.state.End,
	})
	return e
}

func (fm *flatMappedArray[A, B]) activate() {
	elems := fm.src.Slice(0, fm.src.Count())
	fm.entries = make([]*flatEntry[B], len(elems))
	fm.total = 0
	for i, a := range elems {
		fm.entries[i] = fm.attach(a)
		fm.total += fm.entries[i].n
	}
	fm.upstream = fm.src.Add(&ObserverFuncs[change.ArrayChange[A]]{
		OnBegan:   fm.state.Begin,
		OnChanged: fm.upstreamChanged,
		OnEnded:   fm.state.End,
	})
}

func (fm *flatMappedArray[A, B]) deactivate() {
	fm.upstream.Disconnect()
	fm.upstream = nil
	for _, e := range fm.entries {
		e.conn.Disconnect()
	}
	fm.entries = nil
	fm.total = 0
}

// upstreamChanged replaces whole nested spans: an upstream insert brings
// in its element's entire current nested sequence, an upstream removal
// takes its span out.
func (fm *flatMappedArray[A, B]) upstreamChanged(c change.ArrayChange[A]) {
	out := change.NewArrayChange[B](fm.total)
	for _, m := range c.Mods() {
		off := 0
		for _, e := range fm.entries[:m.Index] {
			off += e.n
		}
		var old []B
		for _, e := range fm.entries[m.Index : m.Index+len(m.Old)] {
			old = append(old, e.obs.Slice(0, e.n)...)
			e.conn.Disconnect()
		}
		var new_ []B
		added := make([]*flatEntry[B], len(m.New))
		for k, a := range m.New {
			added[k] = fm.attach(a)
			new_ = append(new_, added[k].obs.Slice(0, added[k].n)...)
		}
		tail := append([]*flatEntry[B]{}, fm.entries[m.Index+len(m.Old):]...)
		fm.entries = append(fm.entries[:m.Index], added...)
		fm.entries = append(fm.entries, tail...)
		fm.total += len(new_) - len(old)
		if len(old) > 0 || len(new_) > 0 {
			out.Add(change.ReplaceSliceMod(old, off, new_))
		}
	}
	fm.state.Send(out)
}

// nestedChanged translates one nested sequence's change to the entry's
// current downstream offset.
func (fm *flatMappedArray[A, B]) nestedChanged(e *flatEntry[B], c change.ArrayChange[B]) {
	off := fm.offsetOf(e)
	out := change.NewArrayChange[B](fm.total)
	for _, m := range c.Mods() {
		out.Add(m.Shifted(off))
	}
	delta := c.FinalCount() - c.InitialCount()
	e.n += delta
	fm.total += delta
	fm.state.Send(out)
}
