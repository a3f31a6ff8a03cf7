package gluekit

import (
	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/signal"
)

// mappedSet projects a set through a transform that need not be
// injective: distinct source elements may collide on one result. While
// active it keeps per-result multiplicity counts, so a result is reported
// inserted only on its first occurrence and removed only when its last
// occurrence goes away.
type mappedSet[A, B comparable] struct {
	src SetObservable[A]
	f   func(A) B

	state    TransactionState[change.SetChange[B]]
	upstream *signal.Connection
	mult     map[B]int
}

// MapSet derives the image of the source set under f.
func MapSet[A, B comparable](src SetObservable[A], f func(A) B) SetObservable[B] {
	m := &mappedSet[A, B]{src: src, f: f}
	m.state.OnFirstObserver = m.activate
	m.state.OnLastObserver = m.deactivate
	return m
}

func (m *mappedSet[A, B]) image() map[B]struct{} {
	out := make(map[B]struct{})
	for a := range m.src.Get() {
		out[m.f(a)] = struct{}{}
	}
	return out
}

func (m *mappedSet[A, B]) Count() int {
	if m.upstream != nil {
		return len(m.mult)
	}
	return len(m.image())
}

func (m *mappedSet[A, B]) Contains(b B) bool {
	if m.upstream != nil {
		return m.mult[b] > 0
	}
	_, ok := m.image()[b]
	return ok
}

func (m *mappedSet[A, B]) Get() map[B]struct{} {
	if m.upstream == nil {
		return m.image()
	}
	out := make(map[B]struct{}, len(m.mult))
	for b := range m.mult {
		out[b] = struct{}{}
	}
	return out
}

func (m *mappedSet[A, B]) Add(o Observer[change.SetChange[B]]) *signal.Connection {
	return m.state.Add(o)
}

func (m *mappedSet[A, B]) activate() {
	m.mult = make(map[B]int)
	for a := range m.src.Get() {
		m.mult[m.f(a)]++
	}
	m.upstream = m.src.Add(&ObserverFuncs[change.SetChange[A]]{
		OnBegan:   m.state.Begin,
		OnChanged: m.apply,
		OnEnded:   m.state.End,
	})
}

func (m *mappedSet[A, B]) deactivate() {
	m.upstream.Disconnect()
	m.upstream = nil
	m.mult = nil
}

func (m *mappedSet[A, B]) apply(c change.SetChange[A]) {
	deltas := make(map[B]int)
	for a := range c.Removed {
		deltas[m.f(a)]--
	}
	for a := range c.Inserted {
		deltas[m.f(a)]++
	}
	var removed, inserted []B
	for b, d := range deltas {
		old := m.mult[b]
		now := old + d
		switch {
		case now == 0:
			delete(m.mult, b)
		default:
			m.mult[b] = now
		}
		if old > 0 && now == 0 {
			removed = append(removed, b)
		}
		if old == 0 && now > 0 {
			inserted = append(inserted, b)
		}
	}
	m.state.Send(change.NewSetChange(removed, inserted))
}
