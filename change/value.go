package change

import (
	"reflect"

	"github.com/attaswift/gluekit/gluekit_errors"
	"github.com/pkg/errors"
)

// Change is the capability set shared by all change kinds. The type
// parameter is the implementing type itself, so merges stay closed over
// one concrete change kind.
type Change[C any] interface {
	Merge(next C) C
	Reversed() C
	IsEmpty() bool
}

// ValueChange is an (old, new) pair over a scalar value.
type ValueChange[V any] struct {
	Old, New V
}

func NewValueChange[V any](old, new V) ValueChange[V] {
	return ValueChange[V]{Old: old, New: new}
}

func (c ValueChange[V]) IsEmpty() bool {
	return reflect.DeepEqual(c.Old, c.New)
}

// Apply returns the post-change value.
func (c ValueChange[V]) Apply(v V) V {
	return c.New
}

// Merge collapses old1→new1 followed by new1→new2 into old1→new2.
// The changes must chain: panics otherwise.
func (c ValueChange[V]) Merge(next ValueChange[V]) ValueChange[V] {
	if !reflect.DeepEqual(c.New, next.Old) {
		panic(errors.Wrapf(gluekit_errors.ErrNotChained,
			"value merge: %v != %v", c.New, next.Old))
	}
	return ValueChange[V]{Old: c.Old, New: next.New}
}

func (c ValueChange[V]) Reversed() ValueChange[V] {
	return ValueChange[V]{Old: c.New, New: c.Old}
}

// MapValueChange produces the equivalent change over a transformed
// value type.
func MapValueChange[V, W any](c ValueChange[V], f func(V) W) ValueChange[W] {
	return ValueChange[W]{Old: f(c.Old), New: f(c.New)}
}
