package utils

import "golang.org/x/exp/constraints"

// Heap is a binary heap over an ordered element type. The zero value is an
// empty min-heap; set Max for a max-heap before the first Push.
type Heap[T constraints.Ordered] struct {
	buf []T
	Max bool
}

func (h *Heap[T]) Len() int {
	return len(h.buf)
}

func (h *Heap[T]) before(a, b T) bool {
	if h.Max {
		return b < a
	}
	return a < b
}

// Push pushes the element x onto the heap.
// The complexity is O(log n) where n = h.Len().
func (h *Heap[T]) Push(x T) {
	h.buf = append(h.buf, x)
	h.up(h.Len() - 1)
}

// Peek returns the top element without removing it.
func (h *Heap[T]) Peek() T {
	return h.buf[0]
}

func (h *Heap[T]) swap(i, j int) {
	h.buf[i], h.buf[j] = h.buf[j], h.buf[i]
}

// Pop removes and returns the top element (minimum, or maximum for a
// max-heap). The complexity is O(log n) where n = h.Len().
func (h *Heap[T]) Pop() (top T) {
	top = h.buf[0]
	n := h.Len() - 1
	h.swap(0, n)
	h.down(0, n)
	h.buf = h.buf[0:n]
	return
}

func (h *Heap[T]) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !h.before(h.buf[j], h.buf[i]) {
			break
		}
		h.swap(i, j)
		j = i
	}
}

func (h *Heap[T]) down(i0, n int) bool {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 { // j1 < 0 after int overflow
			break
		}
		j := j1 // left child
		if j2 := j1 + 1; j2 < n && h.before(h.buf[j2], h.buf[j1]) {
			j = j2 // = 2*i + 2  // right child
		}
		if !h.before(h.buf[j], h.buf[i]) {
			break
		}
		h.swap(i, j)
		i = j
	}
	return i > i0
}
