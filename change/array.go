package change

import (
	"fmt"
	"strings"

	"github.com/attaswift/gluekit/gluekit_errors"
	"github.com/pkg/errors"
)

// ArrayChange is an initial element count plus an ordered list of
// non-overlapping modifications. Each stored modification is positioned
// against the sequence produced by the modifications before it, so
// applying them in listed order reproduces the net edit.
type ArrayChange[E any] struct {
	initialCount int
	mods         []ArrayModification[E]
}

func NewArrayChange[E any](initialCount int) ArrayChange[E] {
	return ArrayChange[E]{initialCount: initialCount}
}

// SingleChange wraps one modification against a sequence of the given
// count.
func SingleChange[E any](initialCount int, m ArrayModification[E]) ArrayChange[E] {
	c := NewArrayChange[E](initialCount)
	c.Add(m)
	return c
}

func (c ArrayChange[E]) InitialCount() int {
	return c.initialCount
}

func (c ArrayChange[E]) FinalCount() int {
	n := c.initialCount
	for _, m := range c.mods {
		n += m.DeltaCount()
	}
	return n
}

func (c ArrayChange[E]) Mods() []ArrayModification[E] {
	return c.mods
}

func (c ArrayChange[E]) IsEmpty() bool {
	return len(c.mods) == 0
}

// Add merges one more modification, expressed against the sequence this
// change currently produces, into the modification list. The new
// modification is walked down the list from the top; entries it lands
// strictly above keep it where it is, entries it lands strictly below are
// shifted by its delta, and entries whose spans overlap or touch it are
// fused into a single replace-slice. A fusion that cancels out exactly is
// dropped.
func (c *ArrayChange[E]) Add(m ArrayModification[E]) {
	if m.IsIdentity() {
		return
	}
	pos := len(c.mods) - 1
	for pos >= 0 {
		prev := c.mods[pos]
		kind, fused := mergeMods(prev, m)
		switch kind {
		case disjointAfter:
			c.mods = append(c.mods, ArrayModification[E]{})
			copy(c.mods[pos+2:], c.mods[pos+1:])
			c.mods[pos+1] = m
			return
		case disjointBefore:
			c.mods[pos] = prev.Shifted(m.DeltaCount())
			pos--
		case fusedToIdentity:
			c.mods = append(c.mods[:pos], c.mods[pos+1:]...)
			return
		case fusedTo:
			c.mods = append(c.mods[:pos], c.mods[pos+1:]...)
			m = fused
			pos--
		}
	}
	c.mods = append(c.mods, ArrayModification[E]{})
	copy(c.mods[1:], c.mods)
	c.mods[0] = m
}

// Merge folds every modification of next into a copy of this change.
// next must be expressed against the sequence this change produces.
func (c ArrayChange[E]) Merge(next ArrayChange[E]) ArrayChange[E] {
	if next.initialCount != c.FinalCount() {
		panic(errors.Wrapf(gluekit_errors.ErrCountMismatch,
			"array merge: %d != %d", next.initialCount, c.FinalCount()))
	}
	out := ArrayChange[E]{
		initialCount: c.initialCount,
		mods:         append([]ArrayModification[E]{}, c.mods...),
	}
	for _, m := range next.mods {
		out.Add(m)
	}
	return out
}

// Apply produces the post-change sequence.
func (c ArrayChange[E]) Apply(a []E) []E {
	if len(a) != c.initialCount {
		panic(errors.Wrapf(gluekit_errors.ErrCountMismatch,
			"array apply: %d elements, change expects %d", len(a), c.initialCount))
	}
	out := a
	for _, m := range c.mods {
		out = m.Apply(out)
	}
	return out
}

// Reversed is the exact inverse: modifications in reverse order, each with
// its old and new spans swapped. Positions carry over unchanged since each
// reversed modification un-applies in the same coordinate space its
// forward twin applied in.
func (c ArrayChange[E]) Reversed() ArrayChange[E] {
	out := ArrayChange[E]{
		initialCount: c.FinalCount(),
		mods:         make([]ArrayModification[E], len(c.mods)),
	}
	for i, m := range c.mods {
		out.mods[len(c.mods)-1-i] = m.Reversed()
	}
	return out
}

func (c ArrayChange[E]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d[", c.initialCount)
	for i, m := range c.mods {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// MapArrayChange produces the equivalent change over a transformed
// element type.
func MapArrayChange[E, F any](c ArrayChange[E], f func(E) F) ArrayChange[F] {
	out := ArrayChange[F]{
		initialCount: c.initialCount,
		mods:         make([]ArrayModification[F], len(c.mods)),
	}
	for i, m := range c.mods {
		out.mods[i] = MapArrayModification(m, f)
	}
	return out
}
