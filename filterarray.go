package gluekit

import (
	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/gluekit_errors"
	"github.com/attaswift/gluekit/signal"
	"github.com/pkg/errors"
)

// filteredArray projects the source sequence through a predicate. While
// active it tracks which upstream positions currently pass, so an
// upstream edit translates to a downstream edit at the right offset;
// while inactive every pull rescans upstream.
type filteredArray[E any] struct {
	src  ArrayObservable[E]
	pred func(E) bool

	state    TransactionState[change.ArrayChange[E]]
	upstream *signal.Connection
	matched  []bool // per upstream position, while active
	count    int    // matched total, while active
}

// FilterArray derives the subsequence of elements satisfying pred.
func FilterArray[E any](src ArrayObservable[E], pred func(E) bool) ArrayObservable[E] {
	f := &filteredArray[E]{src: src, pred: pred}
	f.state.OnFirstObserver = f.activate
	f.state.OnLastObserver = f.deactivate
	return f
}

func (f *filteredArray[E]) Count() int {
	if f.upstream != nil {
		return f.count
	}
	n := 0
	for _, e := range f.src.Slice(0, f.src.Count()) {
		if f.pred(e) {
			n++
		}
	}
	return n
}

func (f *filteredArray[E]) Get(i int) E {
	out := f.Slice(i, i+1)
	if len(out) == 0 {
		panic(errors.Wrapf(gluekit_errors.ErrIndexRange,
			"index %d on %d elements", i, f.Count()))
	}
	return out[0]
}

func (f *filteredArray[E]) Slice(lo, hi int) []E {
	out := make([]E, 0, hi-lo)
	at := 0
	for _, e := range f.src.Slice(0, f.src.Count()) {
		if !f.pred(e) {
			continue
		}
		if at >= hi {
			break
		}
		if at >= lo {
			out = append(out, e)
		}
		at++
	}
	return out
}

func (f *filteredArray[E]) Add(o Observer[change.ArrayChange[E]]) *signal.Connection {
	return f.state.Add(o)
}

func (f *filteredArray[E]) activate() {
	elems := f.src.Slice(0, f.src.Count())
	f.matched = make([]bool, len(elems))
	f.count = 0
	for i, e := range elems {
		if f.pred(e) {
			f.matched[i] = true
			f.count++
		}
	}
	f.upstream = f.src.Add(&ObserverFuncs[change.ArrayChange[E]]{
		OnBegan:   f.state.Begin,
		OnChanged: f.apply,
		OnEnded:   f.state.End,
	})
}

func (f *filteredArray[E]) deactivate() {
	f.upstream.Disconnect()
	f.upstream = nil
	f.matched = nil
	f.count = 0
}

// apply replays each upstream modification through the predicate,
// producing zero or more downstream modifications with indices adjusted
// for the elements the predicate drops.
func (f *filteredArray[E]) apply(c change.ArrayChange[E]) {
	out := change.NewArrayChange[E](f.count)
	for _, m := range c.Mods() {
		// downstream position: matched elements below the edit
		di := 0
		for _, ok := range f.matched[:m.Index] {
			if ok {
				di++
			}
		}
		old := make([]E, 0, len(m.Old))
		for k, e := range m.Old {
			if f.matched[m.Index+k] {
				old = append(old, e)
			}
		}
		newMatched := make([]bool, len(m.New))
		new_ := make([]E, 0, len(m.New))
		for k, e := range m.New {
			if f.pred(e) {
				newMatched[k] = true
				new_ = append(new_, e)
			}
		}
		// splice the tracked match flags the same way the edit spliced
		// the upstream sequence
		tail := append([]bool{}, f.matched[m.Index+len(m.Old):]...)
		f.matched = append(f.matched[:m.Index], newMatched...)
		f.matched = append(f.matched, tail...)
		f.count += len(new_) - len(old)
		if len(old) > 0 || len(new_) > 0 {
			out.Add(change.ReplaceSliceMod(old, di, new_))
		}
	}
	f.state.Send(out)
}
