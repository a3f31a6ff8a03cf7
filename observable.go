// Package gluekit is an incremental observation engine: observable
// values, sets and sequences that report their mutations as mergeable
// change values (package change), delivered synchronously through
// transactions to any number of observers, plus operators that derive new
// observables from existing ones without full recomputation.
package gluekit

import (
	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/signal"
)

// Observer receives one observable's updates as well-formed brackets:
// Began, zero or one Changed carrying the merged change, then Ended.
// Delivery is synchronous on the mutating call's thread.
type Observer[C change.Change[C]] interface {
	Began()
	Changed(C)
	Ended()
}

// ObserverFuncs adapts closures to Observer. Nil fields are skipped.
// The pointer is the observer's identity.
type ObserverFuncs[C change.Change[C]] struct {
	OnBegan   func()
	OnChanged func(C)
	OnEnded   func()
}

func (o *ObserverFuncs[C]) Began() {
	if o.OnBegan != nil {
		o.OnBegan()
	}
}

func (o *ObserverFuncs[C]) Changed(c C) {
	if o.OnChanged != nil {
		o.OnChanged(c)
	}
}

func (o *ObserverFuncs[C]) Ended() {
	if o.OnEnded != nil {
		o.OnEnded()
	}
}

// OnChange builds an observer that only cares about the merged changes.
func OnChange[C change.Change[C]](fn func(C)) Observer[C] {
	return &ObserverFuncs[C]{OnChanged: fn}
}

// ValueObservable is an observable scalar.
type ValueObservable[V any] interface {
	Get() V
	Add(Observer[change.ValueChange[V]]) *signal.Connection
}

// UpdatableValue additionally accepts mutations, either directly or as
// applied changes, and exposes the transaction bracket so several
// mutations can be reported as one.
type UpdatableValue[V any] interface {
	ValueObservable[V]
	Set(V)
	Apply(change.ValueChange[V])
	Begin()
	End()
}

// SetObservable is an observable unordered collection of unique elements.
type SetObservable[E comparable] interface {
	Count() int
	Contains(E) bool
	Get() map[E]struct{}
	Add(Observer[change.SetChange[E]]) *signal.Connection
}

type UpdatableSet[E comparable] interface {
	SetObservable[E]
	Insert(E)
	Remove(E)
	Apply(change.SetChange[E])
	Begin()
	End()
}

// ArrayObservable is an observable ordered sequence.
type ArrayObservable[E any] interface {
	Count() int
	Get(i int) E
	Slice(lo, hi int) []E
	Add(Observer[change.ArrayChange[E]]) *signal.Connection
}

type UpdatableArray[E any] interface {
	ArrayObservable[E]
	Set(i int, e E)
	Insert(i int, e E)
	RemoveAt(i int) E
	Apply(change.ArrayChange[E])
	Begin()
	End()
}
