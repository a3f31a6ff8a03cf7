package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalBasics(t *testing.T) {
	var s Signal[int]
	assert.False(t, s.IsConnected())

	var got []int
	sink := NewSink(func(v int) { got = append(got, v) })
	s.Add(sink)
	assert.True(t, s.IsConnected())
	assert.Equal(t, 1, s.Count())
	assert.True(t, s.Has(sink))

	s.Send(1)
	s.Send(2)
	assert.Equal(t, []int{1, 2}, got)

	require.NoError(t, s.Remove(sink))
	assert.False(t, s.Has(sink))
	s.Send(3)
	assert.Equal(t, []int{1, 2}, got)

	assert.ErrorIs(t, s.Remove(sink), ErrNotKnown)
}

func TestSignalFanOut(t *testing.T) {
	var s Signal[string]
	var a, b []string
	s.Add(NewSink(func(v string) { a = append(a, v) }))
	s.Add(NewSink(func(v string) { b = append(b, v) }))
	s.Send("x")
	assert.Equal(t, []string{"x"}, a)
	assert.Equal(t, []string{"x"}, b)
}

func TestSignalAddDuringSend(t *testing.T) {
	var s Signal[int]
	var late []int
	lateSink := NewSink(func(v int) { late = append(late, v) })

	var first []int
	s.Add(NewSink(func(v int) {
		first = append(first, v)
		if v == 1 {
			s.Add(lateSink)
		}
	}))

	// a sink added mid-delivery only sees subsequent sends
	s.Send(1)
	assert.Empty(t, late)
	s.Send(2)
	assert.Equal(t, []int{1, 2}, first)
	assert.Equal(t, []int{2}, late)
}

func TestSignalRemoveDuringSend(t *testing.T) {
	var s Signal[int]
	var got []int
	victim := NewSink(func(v int) { got = append(got, v) })

	// first in snapshot order, removes victim before it is visited
	s.Add(NewSink(func(v int) {
		_ = s.Remove(victim)
	}))
	s.Add(victim)

	s.Send(1)
	assert.Empty(t, got)
	assert.Equal(t, 1, s.Count())
}

func TestSignalRemoveAfterVisit(t *testing.T) {
	var s Signal[int]
	var got []int
	victim := NewSink(func(v int) { got = append(got, v) })

	// visited before its remover runs: it keeps that delivery
	s.Add(victim)
	s.Add(NewSink(func(v int) {
		_ = s.Remove(victim)
	}))

	s.Send(1)
	assert.Equal(t, []int{1}, got)
	s.Send(2)
	assert.Equal(t, []int{1}, got)
}

func TestSignalReentrantSend(t *testing.T) {
	var s Signal[int]
	var order []int
	s.Add(NewSink(func(v int) {
		order = append(order, v)
		if v < 3 {
			// queued, delivered after the current delivery completes
			s.Send(v + 10)
			s.Send(v + 20)
			order = append(order, -v)
		}
	}))
	s.Send(1)
	assert.Equal(t, []int{1, -1, 11, 21}, order)
}

func TestSignalTransitionHooks(t *testing.T) {
	var s Signal[int]
	var first, last int
	s.OnFirstSink = func() { first++ }
	s.OnLastSink = func() { last++ }

	a := NewSink(func(int) {})
	b := NewSink(func(int) {})
	s.Add(a)
	assert.Equal(t, 1, first)
	s.Add(b)
	assert.Equal(t, 1, first)

	require.NoError(t, s.Remove(a))
	assert.Equal(t, 0, last)
	require.NoError(t, s.Remove(b))
	assert.Equal(t, 1, last)

	// edges fire again on the next cycle
	s.Add(a)
	assert.Equal(t, 2, first)
	require.NoError(t, s.Remove(a))
	assert.Equal(t, 2, last)
}

func TestSignalConnect(t *testing.T) {
	var s Signal[int]
	var got []int
	conn := s.Connect(func(v int) { got = append(got, v) })
	assert.True(t, conn.IsConnected())

	s.Send(1)
	conn.Disconnect()
	s.Send(2)
	assert.Equal(t, []int{1}, got)
	assert.False(t, conn.IsConnected())
	assert.False(t, s.IsConnected())

	// a second disconnect is a no-op
	conn.Disconnect()
}

func TestConnectionCallbacks(t *testing.T) {
	fired := 0
	c := NewConnection(nil)
	c.AddCallback(func() { fired++ })
	c.Disconnect()
	assert.Equal(t, 1, fired)

	// registered after the fact, runs immediately
	c.AddCallback(func() { fired += 10 })
	assert.Equal(t, 11, fired)

	c.Disconnect()
	assert.Equal(t, 11, fired)
}

func TestSignalStats(t *testing.T) {
	var s Signal[int]
	s.Add(NewSink(func(int) {}))
	s.Add(NewSink(func(int) {}))
	s.Send(1)
	s.Send(2)
	st := s.Stats()
	assert.Equal(t, uint64(2), st.Sends)
	assert.Equal(t, 2.0, st.AvgDelivered)
}
