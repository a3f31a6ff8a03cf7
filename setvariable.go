package gluekit

import (
	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/signal"
)

// SetVariable is an updatable observable set of unique elements.
type SetVariable[E comparable] struct {
	contents map[E]struct{}
	state    TransactionState[change.SetChange[E]]
}

func NewSetVariable[E comparable](elems ...E) *SetVariable[E] {
	s := &SetVariable[E]{contents: make(map[E]struct{}, len(elems))}
	for _, e := range elems {
		s.contents[e] = struct{}{}
	}
	return s
}

func (s *SetVariable[E]) Count() int {
	return len(s.contents)
}

func (s *SetVariable[E]) Contains(e E) bool {
	_, ok := s.contents[e]
	return ok
}

// Get copies the contents out.
func (s *SetVariable[E]) Get() map[E]struct{} {
	out := make(map[E]struct{}, len(s.contents))
	for e := range s.contents {
		out[e] = struct{}{}
	}
	return out
}

// Insert adds e; adding a present element reports nothing.
func (s *SetVariable[E]) Insert(e E) {
	if _, ok := s.contents[e]; ok {
		return
	}
	s.contents[e] = struct{}{}
	s.state.Send(change.InsertionOf(e))
}

// Remove drops e; removing an absent element reports nothing.
func (s *SetVariable[E]) Remove(e E) {
	if _, ok := s.contents[e]; !ok {
		return
	}
	delete(s.contents, e)
	s.state.Send(change.RemovalOf(e))
}

// Apply accepts an externally produced change.
func (s *SetVariable[E]) Apply(c change.SetChange[E]) {
	if c.IsEmpty() {
		return
	}
	c.Apply(s.contents)
	s.state.Send(c)
}

func (s *SetVariable[E]) Begin() {
	s.state.Begin()
}

func (s *SetVariable[E]) End() {
	s.state.End()
}

func (s *SetVariable[E]) Add(o Observer[change.SetChange[E]]) *signal.Connection {
	return s.state.Add(o)
}

func (s *SetVariable[E]) ObservableStats() Stats {
	return Stats{
		Observers: s.state.ObserverCount(),
		Depth:     s.state.Depth(),
		Sends:     s.state.Sends(),
		Elements:  len(s.contents),
	}
}
