package gluekit

import (
	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/signal"
)

// concatArrays presents two sequences as one: the head's elements
// followed by the tail's. Tail changes shift by the head's current count.
type concatArrays[E any] struct {
	head, tail ArrayObservable[E]

	state              TransactionState[change.ArrayChange[E]]
	headConn, tailConn *signal.Connection
	headCount          int
	tailCount          int
}

// ConcatArrays derives the concatenation of two sequence observables.
func ConcatArrays[E any](head, tail ArrayObservable[E]) ArrayObservable[E] {
	c := &concatArrays[E]{head: head, tail: tail}
	c.state.OnFirstObserver = c.activate
	c.state.OnLastObserver = c.deactivate
	return c
}

func (c *concatArrays[E]) Count() int {
	if c.headConn != nil {
		return c.headCount + c.tailCount
	}
	return c.head.Count() + c.tail.Count()
}

func (c *concatArrays[E]) Get(i int) E {
	n := c.head.Count()
	if i < n {
		return c.head.Get(i)
	}
	return c.tail.Get(i - n)
}

func (c *concatArrays[E]) Slice(lo, hi int) []E {
	n := c.head.Count()
	out := make([]E, 0, hi-lo)
	if lo < n {
		end := hi
		if end > n {
			end = n
		}
		out = append(out, c.head.Slice(lo, end)...)
	}
	if hi > n {
		start := lo - n
		if start < 0 {
			start = 0
		}
		out = append(out, c.tail.Slice(start, hi-n)...)
	}
	return out
}

func (c *concatArrays[E]) Add(o Observer[change.ArrayChange[E]]) *signal.Connection {
	return c.state.Add(o)
}

func (c *concatArrays[E]) activate() {
	c.headCount = c.head.Count()
	c.tailCount = c.tail.Count()
	c.headConn = c.head.Add(&ObserverFuncs[change.ArrayChange[E]]{
		OnBegan:   c.state.Begin,
		OnChanged: c.headChanged,
		OnEnded:   c.state.End,
	})
	c.tailConn = c.tail.Add(&ObserverFuncs[change.ArrayChange[E]]{
		OnBegan:   c.state.Begin,
		OnChanged: c.tailChanged,
		OnEnded:   c.state.End,
	})
}

func (c *concatArrays[E]) deactivate() {
	c.headConn.Disconnect()
	c.tailConn.Disconnect()
	c.headConn, c.tailConn = nil, nil
}

func (c *concatArrays[E]) headChanged(hc change.ArrayChange[E]) {
	out := change.NewArrayChange[E](c.headCount + c.tailCount)
	for _, m := range hc.Mods() {
		out.Add(m)
	}
	c.headCount = hc.FinalCount()
	c.state.Send(out)
}

func (c *concatArrays[E]) tailChanged(tc change.ArrayChange[E]) {
	out := change.NewArrayChange[E](c.headCount + c.tailCount)
	for _, m := range tc.Mods() {
		out.Add(m.Shifted(c.headCount))
	}
	c.tailCount = tc.FinalCount()
	c.state.Send(out)
}
