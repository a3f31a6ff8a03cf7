package signal

import "sync"

// Connection is the identity token of one observer's attachment. It owns
// zero or more disconnect callbacks and fires them exactly once: on the
// first Disconnect, or immediately on registration if already
// disconnected. Detaching is the only cancellation primitive and is
// idempotent.
type Connection struct {
	lock       sync.Mutex
	done       bool
	disconnect func()
	callbacks  []func()
}

func NewConnection(disconnect func()) *Connection {
	return &Connection{disconnect: disconnect}
}

// AddCallback registers a cleanup to run on disconnect. On an already
// disconnected connection it runs right away.
func (c *Connection) AddCallback(f func()) {
	c.lock.Lock()
	if c.done {
		c.lock.Unlock()
		f()
		return
	}
	c.callbacks = append(c.callbacks, f)
	c.lock.Unlock()
}

func (c *Connection) Disconnect() {
	c.lock.Lock()
	if c.done {
		c.lock.Unlock()
		return
	}
	c.done = true
	disconnect := c.disconnect
	callbacks := c.callbacks
	c.disconnect = nil
	c.callbacks = nil
	c.lock.Unlock()

	if disconnect != nil {
		disconnect()
	}
	for _, f := range callbacks {
		f()
	}
}

func (c *Connection) IsConnected() bool {
	c.lock.Lock()
	connected := !c.done
	c.lock.Unlock()
	return connected
}
