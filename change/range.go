// Package change implements the change algebra: value, set and sequence
// change types with apply/merge/reverse laws. A change describes the
// difference between two states of an observable; merging two consecutive
// changes yields a single change with the same net effect.
package change

import "fmt"

// Range is a half-open position span [Lower, Upper).
type Range struct {
	Lower, Upper int
}

// Span builds a range of the given length starting at lower.
func Span(lower, count int) Range {
	return Range{Lower: lower, Upper: lower + count}
}

func (r Range) Count() int {
	return r.Upper - r.Lower
}

func (r Range) IsEmpty() bool {
	return r.Upper <= r.Lower
}

func (r Range) Contains(i int) bool {
	return i >= r.Lower && i < r.Upper
}

// Touches reports whether the ranges overlap or share a boundary. Two edits
// whose spans merely touch are fused during merge, never kept disjoint.
func (r Range) Touches(o Range) bool {
	return r.Lower <= o.Upper && o.Lower <= r.Upper
}

func (r Range) Shifted(d int) Range {
	return Range{Lower: r.Lower + d, Upper: r.Upper + d}
}

func (r Range) String() string {
	return fmt.Sprintf("%d..<%d", r.Lower, r.Upper)
}
