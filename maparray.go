package gluekit

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/signal"
)

// mappedArray is the unbuffered sequence map: Get recomputes through the
// transform on demand, and upstream modifications replay through it
// one-for-one.
type mappedArray[A, B any] struct {
	src ArrayObservable[A]
	f   func(A) B

	state    TransactionState[change.ArrayChange[B]]
	upstream *signal.Connection
}

// MapArray derives a sequence observable whose elements are f of the
// source's elements, without keeping a transformed copy.
func MapArray[A, B any](src ArrayObservable[A], f func(A) B) ArrayObservable[B] {
	m := &mappedArray[A, B]{src: src, f: f}
	m.state.OnFirstObserver = m.activate
	m.state.OnLastObserver = m.deactivate
	return m
}

func (m *mappedArray[A, B]) Count() int {
	return m.src.Count()
}

func (m *mappedArray[A, B]) Get(i int) B {
	return m.f(m.src.Get(i))
}

func (m *mappedArray[A, B]) Slice(lo, hi int) []B {
	in := m.src.Slice(lo, hi)
	out := make([]B, len(in))
	for i, e := range in {
		out[i] = m.f(e)
	}
	return out
}

func (m *mappedArray[A, B]) Add(o Observer[change.ArrayChange[B]]) *signal.Connection {
	return m.state.Add(o)
}

func (m *mappedArray[A, B]) activate() {
	m.upstream = m.src.Add(&ObserverFuncs[change.ArrayChange[A]]{
		OnBegan: m.state.Begin,
		OnChanged: func(c change.ArrayChange[A]) {
			m.state.Send(change.MapArrayChange(c, m.f))
		},
		OnEnded: m.state.End,
	})
}

func (m *mappedArray[A, B]) deactivate() {
	m.upstream.Disconnect()
	m.upstream = nil
}

// cachedArrayMap is the explicitly buffered variant: transform results
// are memoized per source element in an LRU cache, for transforms too
// expensive to recompute on every pull.
type cachedArrayMap[A comparable, B any] struct {
	src   ArrayObservable[A]
	f     func(A) B
	cache *lru.Cache[A, B]

	state    TransactionState[change.ArrayChange[B]]
	upstream *signal.Connection
}

// CachedArrayMap is MapArray with an LRU memo of up to size transform
// results. The cache is purged on deactivation along with the rest of the
// incremental state.
func CachedArrayMap[A comparable, B any](src ArrayObservable[A], f func(A) B, size int) ArrayObservable[B] {
	cache, err := lru.New[A, B](size)
	if err != nil {
		panic(err)
	}
	m := &cachedArrayMap[A, B]{src: src, f: f, cache: cache}
	m.state.OnFirstObserver = m.activate
	m.state.OnLastObserver = m.deactivate
	return m
}

func (m *cachedArrayMap[A, B]) transform(a A) B {
	if b, ok := m.cache.Get(a); ok {
		return b
	}
	b := m.f(a)
	m.cache.Add(a, b)
	return b
}

func (m *cachedArrayMap[A, B]) Count() int {
	return m.src.Count()
}

func (m *cachedArrayMap[A, B]) Get(i int) B {
	return m.transform(m.src.Get(i))
}

func (m *cachedArrayMap[A, B]) Slice(lo, hi int) []B {
	in := m.src.Slice(lo, hi)
	out := make([]B, len(in))
	for i, e := range in {
		out[i] = m.transform(e)
	}
	return out
}

func (m *cachedArrayMap[A, B]) Add(o Observer[change.ArrayChange[B]]) *signal.Connection {
	return m.state.Add(o)
}

func (m *cachedArrayMap[A, B]) activate() {
	m.upstream = m.src.Add(&ObserverFuncs[change.ArrayChange[A]]{
		OnBegan: m.state.Begin,
		OnChanged: func(c change.ArrayChange[A]) {
			m.state.Send(change.MapArrayChange(c, m.transform))
		},
		OnEnded: m.state.End,
	})
}

func (m *cachedArrayMap[A, B]) deactivate() {
	m.upstream.Disconnect()
	m.upstream = nil
	m.cache.Purge()
}
