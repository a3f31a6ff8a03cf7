package change

import (
	"fmt"
	"reflect"

	"github.com/attaswift/gluekit/gluekit_errors"
	"github.com/pkg/errors"
)

// ModKind classifies an ArrayModification by the shape of its spans.
type ModKind int

const (
	ModInsert ModKind = iota
	ModRemove
	ModReplace
	ModReplaceSlice
)

func (k ModKind) String() string {
	switch k {
	case ModInsert:
		return "insert"
	case ModRemove:
		return "remove"
	case ModReplace:
		return "replace"
	default:
		return "replaceSlice"
	}
}

// ArrayModification is one atomic edit within a sequence change: the
// elements Old at position Index are replaced by New. Inserts carry an
// empty Old span, removals an empty New span.
type ArrayModification[E any] struct {
	Index int
	Old   []E
	New   []E
}

func InsertMod[E any](e E, at int) ArrayModification[E] {
	return ArrayModification[E]{Index: at, New: []E{e}}
}

func RemoveMod[E any](e E, at int) ArrayModification[E] {
	return ArrayModification[E]{Index: at, Old: []E{e}}
}

func ReplaceMod[E any](old E, at int, new E) ArrayModification[E] {
	return ArrayModification[E]{Index: at, Old: []E{old}, New: []E{new}}
}

func ReplaceSliceMod[E any](old []E, at int, new []E) ArrayModification[E] {
	return ArrayModification[E]{Index: at, Old: old, New: new}
}

func (m ArrayModification[E]) Kind() ModKind {
	switch {
	case len(m.Old) == 0 && len(m.New) == 1:
		return ModInsert
	case len(m.Old) == 1 && len(m.New) == 0:
		return ModRemove
	case len(m.Old) == 1 && len(m.New) == 1:
		return ModReplace
	default:
		return ModReplaceSlice
	}
}

// InputRange is the span consumed from the pre-edit sequence.
func (m ArrayModification[E]) InputRange() Range {
	return Span(m.Index, len(m.Old))
}

// OutputRange is the span produced in the post-edit sequence.
func (m ArrayModification[E]) OutputRange() Range {
	return Span(m.Index, len(m.New))
}

func (m ArrayModification[E]) DeltaCount() int {
	return len(m.New) - len(m.Old)
}

// IsIdentity reports whether the modification replaces a span with an
// identical one. Identities are never stored in an ArrayChange.
func (m ArrayModification[E]) IsIdentity() bool {
	if len(m.Old) != len(m.New) {
		return false
	}
	for i := range m.Old {
		if !reflect.DeepEqual(m.Old[i], m.New[i]) {
			return false
		}
	}
	return true
}

// Apply splices the modification into a copy of the sequence. The stated
// old span must match the actual span: a mismatch is a broken invariant,
// not a runtime condition.
func (m ArrayModification[E]) Apply(a []E) []E {
	if m.Index < 0 || m.Index+len(m.Old) > len(a) {
		panic(errors.Wrapf(gluekit_errors.ErrIndexRange,
			"modification %s at %d on %d elements", m.Kind(), m.Index, len(a)))
	}
	for i, e := range m.Old {
		if !reflect.DeepEqual(e, a[m.Index+i]) {
			panic(errors.Wrapf(gluekit_errors.ErrSpanMismatch,
				"modification %s at %d: expected %v, found %v",
				m.Kind(), m.Index, e, a[m.Index+i]))
		}
	}
	out := make([]E, 0, len(a)+m.DeltaCount())
	out = append(out, a[:m.Index]...)
	out = append(out, m.New...)
	out = append(out, a[m.Index+len(m.Old):]...)
	return out
}

// Reversed swaps the old and new spans; kinds flip accordingly
// (insert becomes remove and vice versa).
func (m ArrayModification[E]) Reversed() ArrayModification[E] {
	return ArrayModification[E]{Index: m.Index, Old: m.New, New: m.Old}
}

func (m ArrayModification[E]) Shifted(d int) ArrayModification[E] {
	return ArrayModification[E]{Index: m.Index + d, Old: m.Old, New: m.New}
}

func (m ArrayModification[E]) String() string {
	switch m.Kind() {
	case ModInsert:
		return fmt.Sprintf("insert(%v, at %d)", m.New[0], m.Index)
	case ModRemove:
		return fmt.Sprintf("remove(%v, at %d)", m.Old[0], m.Index)
	case ModReplace:
		return fmt.Sprintf("replace(%v, at %d, with %v)", m.Old[0], m.Index, m.New[0])
	default:
		return fmt.Sprintf("replaceSlice(%v, at %d, with %v)", m.Old, m.Index, m.New)
	}
}

// MapArrayModification produces the equivalent modification over a
// transformed element type.
func MapArrayModification[E, F any](m ArrayModification[E], f func(E) F) ArrayModification[F] {
	return ArrayModification[F]{
		Index: m.Index,
		Old:   mapSlice(m.Old, f),
		New:   mapSlice(m.New, f),
	}
}

func mapSlice[E, F any](in []E, f func(E) F) []F {
	if in == nil {
		return nil
	}
	out := make([]F, len(in))
	for i, e := range in {
		out[i] = f(e)
	}
	return out
}

// mergedKind is the outcome of combining an existing modification with a
// later one expressed against the already-edited sequence.
type mergedKind int

const (
	// the later modification lands strictly below the existing one
	disjointBefore mergedKind = iota
	// the later modification lands strictly above the existing one
	disjointAfter
	// the two fused into a single modification
	fusedTo
	// the two cancelled out exactly
	fusedToIdentity
)

// mergeMods combines modification a with b, where b is expressed against
// the sequence a produced. Overlapping or boundary-touching spans fuse
// into one replace-slice over the union; the fused modification is
// expressed against the sequence a consumed.
func mergeMods[E any](a, b ArrayModification[E]) (mergedKind, ArrayModification[E]) {
	in, out := b.InputRange(), a.OutputRange()
	if in.Upper < out.Lower {
		return disjointBefore, b
	}
	if in.Lower > out.Upper {
		return disjointAfter, b
	}

	i, j := a.Index, b.Index
	n, o := len(a.New), len(b.Old)
	lower := i
	if j < i {
		lower = j
	}

	old := make([]E, 0, len(a.Old)+o)
	if i > j {
		// b consumed untouched elements below a's output; those are
		// original elements in both coordinate spaces
		old = append(old, b.Old[:i-j]...)
	}
	old = append(old, a.Old...)
	if tail := i + n - j; tail < o {
		old = append(old, b.Old[tail:]...)
	}

	new_ := make([]E, 0, n+len(b.New))
	if j > i {
		new_ = append(new_, a.New[:j-i]...)
	}
	new_ = append(new_, b.New...)
	if tail := j + o - i; tail < n {
		new_ = append(new_, a.New[tail:]...)
	}

	fused := ArrayModification[E]{Index: lower, Old: old, New: new_}
	if fused.IsIdentity() {
		return fusedToIdentity, fused
	}
	return fusedTo, fused
}
