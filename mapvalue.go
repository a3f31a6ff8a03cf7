package gluekit

import (
	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/signal"
)

// mappedValue derives a value observable by a pure transform. It needs no
// incremental state: pulls recompute from upstream, and upstream changes
// map through the transform.
type mappedValue[A, B any] struct {
	src ValueObservable[A]
	f   func(A) B

	state    TransactionState[change.ValueChange[B]]
	upstream *signal.Connection
}

// MapValue derives an observable whose value is f of the source's value.
// It subscribes upstream only while it has observers itself.
func MapValue[A, B any](src ValueObservable[A], f func(A) B) ValueObservable[B] {
	m := &mappedValue[A, B]{src: src, f: f}
	m.state.OnFirstObserver = m.activate
	m.state.OnLastObserver = m.deactivate
	return m
}

func (m *mappedValue[A, B]) Get() B {
	return m.f(m.src.Get())
}

func (m *mappedValue[A, B]) Add(o Observer[change.ValueChange[B]]) *signal.Connection {
	return m.state.Add(o)
}

func (m *mappedValue[A, B]) activate() {
	m.upstream = m.src.Add(&ObserverFuncs[change.ValueChange[A]]{
		OnBegan: m.state.Begin,
		OnChanged: func(c change.ValueChange[A]) {
			m.state.Send(change.MapValueChange(c, m.f))
		},
		OnEnded: m.state.End,
	})
}

func (m *mappedValue[A, B]) deactivate() {
	m.upstream.Disconnect()
	m.upstream = nil
}

// distinctValue drops changes whose old and new values compare equal, so
// downstream observers only hear about real movement.
type distinctValue[V any] struct {
	src ValueObservable[V]
	eq  func(a, b V) bool

	state    TransactionState[change.ValueChange[V]]
	upstream *signal.Connection
}

// DistinctValue derives an observable that suppresses no-op changes as
// judged by eq.
func DistinctValue[V any](src ValueObservable[V], eq func(a, b V) bool) ValueObservable[V] {
	d := &distinctValue[V]{src: src, eq: eq}
	d.state.OnFirstObserver = d.activate
	d.state.OnLastObserver = d.deactivate
	return d
}

// Distinct is DistinctValue with plain equality.
func Distinct[V comparable](src ValueObservable[V]) ValueObservable[V] {
	return DistinctValue(src, func(a, b V) bool { return a == b })
}

func (d *distinctValue[V]) Get() V {
	return d.src.Get()
}

func (d *distinctValue[V]) Add(o Observer[change.ValueChange[V]]) *signal.Connection {
	return d.state.Add(o)
}

func (d *distinctValue[V]) activate() {
	d.upstream = d.src.Add(&ObserverFuncs[change.ValueChange[V]]{
		OnBegan: d.state.Begin,
		OnChanged: func(c change.ValueChange[V]) {
			if d.eq(c.Old, c.New) {
				return
			}
			d.state.Send(c)
		},
		OnEnded: d.state.End,
	})
}

func (d *distinctValue[V]) deactivate() {
	d.upstream.Disconnect()
	d.upstream = nil
}
