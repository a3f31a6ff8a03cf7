package change

// SetChange is an element-unordered (removed, inserted) pair of disjoint
// sets. Applying it removes Removed from the state and then adds Inserted.
type SetChange[E comparable] struct {
	Removed  map[E]struct{}
	Inserted map[E]struct{}
}

func NewSetChange[E comparable](removed, inserted []E) SetChange[E] {
	c := SetChange[E]{
		Removed:  make(map[E]struct{}, len(removed)),
		Inserted: make(map[E]struct{}, len(inserted)),
	}
	for _, e := range removed {
		c.Removed[e] = struct{}{}
	}
	for _, e := range inserted {
		c.Inserted[e] = struct{}{}
	}
	return c
}

func RemovalOf[E comparable](e E) SetChange[E] {
	return NewSetChange([]E{e}, nil)
}

func InsertionOf[E comparable](e E) SetChange[E] {
	return NewSetChange(nil, []E{e})
}

func (c SetChange[E]) IsEmpty() bool {
	return len(c.Removed) == 0 && len(c.Inserted) == 0
}

// Apply mutates the given set in place.
func (c SetChange[E]) Apply(s map[E]struct{}) {
	for e := range c.Removed {
		delete(s, e)
	}
	for e := range c.Inserted {
		s[e] = struct{}{}
	}
}

// Merge unions removals and insertions, eliminating self-cancelling pairs:
// an element inserted then removed (or removed then inserted) within the
// merged window contributes nothing.
func (c SetChange[E]) Merge(next SetChange[E]) SetChange[E] {
	out := SetChange[E]{
		Removed:  make(map[E]struct{}, len(c.Removed)+len(next.Removed)),
		Inserted: make(map[E]struct{}, len(c.Inserted)+len(next.Inserted)),
	}
	for e := range c.Removed {
		if _, ok := next.Inserted[e]; !ok {
			out.Removed[e] = struct{}{}
		}
	}
	for e := range next.Removed {
		if _, ok := c.Inserted[e]; !ok {
			out.Removed[e] = struct{}{}
		}
	}
	for e := range c.Inserted {
		if _, ok := next.Removed[e]; !ok {
			out.Inserted[e] = struct{}{}
		}
	}
	for e := range next.Inserted {
		if _, ok := c.Removed[e]; !ok {
			out.Inserted[e] = struct{}{}
		}
	}
	return out
}

func (c SetChange[E]) Reversed() SetChange[E] {
	return SetChange[E]{Removed: c.Inserted, Inserted: c.Removed}
}

// MapSetChange produces the equivalent change over a transformed element
// type. The transform must be injective over the affected elements;
// non-injective projections go through the multiplicity-counting set map
// operator instead.
func MapSetChange[E, F comparable](c SetChange[E], f func(E) F) SetChange[F] {
	out := SetChange[F]{
		Removed:  make(map[F]struct{}, len(c.Removed)),
		Inserted: make(map[F]struct{}, len(c.Inserted)),
	}
	for e := range c.Removed {
		out.Removed[f(e)] = struct{}{}
	}
	for e := range c.Inserted {
		out.Inserted[f(e)] = struct{}{}
	}
	return out
}
