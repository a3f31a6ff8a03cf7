package gluekit

import (
	"reflect"

	"github.com/attaswift/gluekit/change"
	"github.com/attaswift/gluekit/gluekit_errors"
	"github.com/attaswift/gluekit/signal"
	"github.com/pkg/errors"
)

// Variable is an updatable observable scalar.
type Variable[V any] struct {
	value V
	state TransactionState[change.ValueChange[V]]
}

func NewVariable[V any](v V) *Variable[V] {
	return &Variable[V]{value: v}
}

func (v *Variable[V]) Get() V {
	return v.value
}

func (v *Variable[V]) Set(nv V) {
	c := change.NewValueChange(v.value, nv)
	v.value = nv
	v.state.Send(c)
}

// Apply accepts an externally produced change; its old value must match
// the current one.
func (v *Variable[V]) Apply(c change.ValueChange[V]) {
	if !reflect.DeepEqual(c.Old, v.value) {
		panic(errors.Wrapf(gluekit_errors.ErrNotChained,
			"apply: change from %v, value is %v", c.Old, v.value))
	}
	v.value = c.New
	v.state.Send(c)
}

func (v *Variable[V]) Begin() {
	v.state.Begin()
}

func (v *Variable[V]) End() {
	v.state.End()
}

func (v *Variable[V]) Add(o Observer[change.ValueChange[V]]) *signal.Connection {
	return v.state.Add(o)
}

func (v *Variable[V]) ObservableStats() Stats {
	return Stats{
		Observers: v.state.ObserverCount(),
		Depth:     v.state.Depth(),
		Sends:     v.state.Sends(),
		Elements:  1,
	}
}
