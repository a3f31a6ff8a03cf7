package gluekit

import (
	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/gluekit_errors"
	"github.com/attaswift/gluekit/signal"
	"github.com/pkg/errors"
)

// txEntry is one observer's bracket state: idle until the first change
// arrives while a transaction is open, then accumulating, then flushed.
type txEntry[C change.Change[C]] struct {
	observer   Observer[C]
	open       bool
	pending    C
	hasPending bool
	conn       *signal.Connection
}

// TransactionState brackets an observable's mutations so that several
// changes are reported to each observer as one merged change. The zero
// value is usable.
//
// Nested transactions collapse: only the outermost begin/end pair emits.
// Observers attaching mid-transaction get a synthetic Began immediately
// and accumulate only the changes from their attach point; observers
// detaching mid-transaction get their accumulated change and a synthetic
// Ended on the way out. Different observers may therefore legitimately
// see different merged changes.
type TransactionState[C change.Change[C]] struct {
	entries []*txEntry[C]
	depth   int

	sending bool
	queue   []func()

	sends uint64

	// observer-count transition hooks; derived observables use these to
	// activate and deactivate their upstream subscriptions
	OnFirstObserver func()
	OnLastObserver  func()
}

// IsActive reports whether a transaction is open. Independent of
// IsConnected.
func (t *TransactionState[C]) IsActive() bool {
	return t.depth > 0
}

// IsConnected reports whether any observer is attached.
func (t *TransactionState[C]) IsConnected() bool {
	return len(t.entries) > 0
}

func (t *TransactionState[C]) ObserverCount() int {
	return len(t.entries)
}

// Sends counts the changes accepted since creation.
func (t *TransactionState[C]) Sends() uint64 {
	return t.sends
}

// Depth is the current nesting level of open transactions.
func (t *TransactionState[C]) Depth() int {
	return t.depth
}

func (t *TransactionState[C]) has(e *txEntry[C]) bool {
	for _, x := range t.entries {
		if x == e {
			return true
		}
	}
	return false
}

// run serializes emissions: work scheduled while an emission is in
// progress is queued and drained afterwards, so observer callbacks never
// nest.
func (t *TransactionState[C]) run(f func()) {
	if t.sending {
		t.queue = append(t.queue, f)
		return
	}
	t.sending = true
	f()
	for len(t.queue) > 0 {
		next := t.queue[0]
		t.queue = t.queue[1:]
		next()
	}
	t.sending = false
}

// Add attaches an observer and returns its connection. Attaching during
// an open transaction emits a synthetic Began right away.
func (t *TransactionState[C]) Add(o Observer[C]) *signal.Connection {
	e := &txEntry[C]{observer: o}
	was := len(t.entries)
	t.entries = append(t.entries, e)
	e.conn = signal.NewConnection(func() {
		t.detach(e)
	})
	if was == 0 && t.OnFirstObserver != nil {
		t.OnFirstObserver()
	}
	if t.IsActive() {
		t.run(func() {
			if t.has(e) && !e.open {
				e.open = true
				e.observer.Began()
			}
		})
	}
	return e.conn
}

func (t *TransactionState[C]) detach(e *txEntry[C]) {
	found := false
	for i, x := range t.entries {
		if x == e {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return
	}
	if e.open {
		// close this observer's bracket with whatever accrued for it
		t.run(func() {
			e.open = false
			if e.hasPending {
				c := e.pending
				e.hasPending = false
				e.observer.Changed(c)
			}
			e.observer.Ended()
		})
	}
	if len(t.entries) == 0 && t.OnLastObserver != nil {
		t.OnLastObserver()
	}
}

// Begin opens a transaction. Nested opens are counted but silent.
func (t *TransactionState[C]) Begin() {
	t.depth++
}

// End closes the innermost transaction; closing the outermost one flushes
// every open observer's accumulated change as a single Changed followed
// by Ended.
func (t *TransactionState[C]) End() {
	if t.depth == 0 {
		panic(errors.Wrap(gluekit_errors.ErrNotInTransaction, "transaction end"))
	}
	t.depth--
	if t.depth > 0 {
		return
	}
	t.run(func() {
		for _, e := range append([]*txEntry[C]{}, t.entries...) {
			if !t.has(e) || !e.open {
				continue
			}
			e.open = false
			if e.hasPending {
				c := e.pending
				e.hasPending = false
				var zero C
				e.pending = zero
				e.observer.Changed(c)
			}
			if t.has(e) {
				e.observer.Ended()
			}
		}
	})
}

// Send merges one more change into every attached observer's pending
// bracket, opening the bracket on first contact. Outside a transaction it
// wraps itself in an implicit begin/end pair.
func (t *TransactionState[C]) Send(c C) {
	if c.IsEmpty() {
		return
	}
	if t.depth == 0 {
		t.Begin()
		t.Send(c)
		t.End()
		return
	}
	t.sends++
	t.run(func() {
		for _, e := range append([]*txEntry[C]{}, t.entries...) {
			if !t.has(e) {
				continue
			}
			if !e.open {
				e.open = true
				e.observer.Began()
			}
			if !t.has(e) {
				// Began disconnected this observer
				continue
			}
			if e.hasPending {
				e.pending = e.pending.Merge(c)
			} else {
				e.pending = c
				e.hasPending = true
			}
		}
	})
}
