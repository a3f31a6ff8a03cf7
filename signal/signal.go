// Package signal implements the synchronous broadcaster: fan-out of
// values to dynamically added and removed sinks, with exactly-once
// delivery per send even when sinks mutate the sink set or send again
// from inside their own callback.
package signal

import (
	"errors"
	"sync"

	"github.com/attaswift/gluekit/utils"
)

// Sink receives broadcast values. Sinks are compared by interface
// identity, so implementations are normally pointers.
type Sink[T any] interface {
	Receive(T)
}

// FuncSink adapts a closure; its pointer is the sink's identity.
type FuncSink[T any] struct {
	fn func(T)
}

func NewSink[T any](fn func(T)) *FuncSink[T] {
	return &FuncSink[T]{fn: fn}
}

func (s *FuncSink[T]) Receive(v T) {
	s.fn(v)
}

var ErrNotKnown = errors.New("unknown sink")

// Signal delivers each sent value to every attached sink, synchronously,
// on the sending call's stack. The zero value is a usable empty signal.
//
// A sink added during a delivery is not visited by that delivery; a sink
// removed during a delivery is skipped once the removal is observed. A
// send issued while a delivery is in progress is queued and delivered
// after the current delivery finishes, never nested.
type Signal[T any] struct {
	lock  sync.Mutex
	sinks []Sink[T]

	sending bool
	pending []T

	sends uint64
	avg   utils.AvgVal

	// transition hooks, fired exactly once per 0→1 / 1→0 edge
	OnFirstSink func()
	OnLastSink  func()
}

func (s *Signal[T]) Add(sink Sink[T]) {
	s.lock.Lock()
	was := len(s.sinks)
	s.sinks = append(s.sinks, sink)
	s.lock.Unlock()
	if was == 0 && s.OnFirstSink != nil {
		s.OnFirstSink()
	}
}

func (s *Signal[T]) find(sink Sink[T]) int {
	i := 0
	for i < len(s.sinks) && s.sinks[i] != sink {
		i++
	}
	return i
}

func (s *Signal[T]) Remove(sink Sink[T]) error {
	s.lock.Lock()
	n := len(s.sinks)
	i := s.find(sink)
	if i == n {
		s.lock.Unlock()
		return ErrNotKnown
	}
	s.sinks = append(s.sinks[:i], s.sinks[i+1:]...)
	now := len(s.sinks)
	s.lock.Unlock()
	if now == 0 && s.OnLastSink != nil {
		s.OnLastSink()
	}
	return nil
}

func (s *Signal[T]) Has(sink Sink[T]) bool {
	s.lock.Lock()
	has := s.find(sink) < len(s.sinks)
	s.lock.Unlock()
	return has
}

func (s *Signal[T]) Count() int {
	s.lock.Lock()
	n := len(s.sinks)
	s.lock.Unlock()
	return n
}

func (s *Signal[T]) IsConnected() bool {
	return s.Count() > 0
}

// Connect attaches a closure and returns its connection. Disconnecting
// removes the sink; a second disconnect is a no-op.
func (s *Signal[T]) Connect(fn func(T)) *Connection {
	sink := NewSink(fn)
	s.Add(sink)
	return NewConnection(func() {
		_ = s.Remove(sink)
	})
}

// Send delivers v to every sink attached at the moment the delivery
// starts. Re-entrant sends are deferred and drained in order, so no sink
// ever observes nested deliveries and no value is lost.
func (s *Signal[T]) Send(v T) {
	if s.sending {
		s.pending = append(s.pending, v)
		return
	}
	s.sending = true
	s.deliver(v)
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.deliver(next)
	}
	s.sending = false
}

func (s *Signal[T]) deliver(v T) {
	s.lock.Lock()
	snapshot := append([]Sink[T]{}, s.sinks...)
	s.lock.Unlock()
	delivered := 0
	for _, sink := range snapshot {
		// a sink may have been removed by an earlier callback
		if s.Has(sink) {
			sink.Receive(v)
			delivered++
		}
	}
	s.sends++
	s.avg.Add(float64(delivered))
}

// Stats describes delivery activity since creation.
type Stats struct {
	Sends        uint64
	AvgDelivered float64
}

func (s *Signal[T]) Stats() Stats {
	return Stats{Sends: s.sends, AvgDelivered: s.avg.Val()}
}
