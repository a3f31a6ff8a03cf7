package gluekit

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attaswift/gluekit/change"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(nil)
	v := NewVariable(1)

	id := r.Register("value", v)
	assert.Equal(t, 1, r.Size())

	r.Deregister(id)
	r.Deregister(id) // unknown token, no-op
	assert.Equal(t, 0, r.Size())
}

func TestStatsCollector(t *testing.T) {
	r := NewRegistry(nil)
	v := NewVariable(1)
	s := NewSetVariable(1, 2, 3)
	r.Register("value", v)
	r.Register("tags", s)

	v.Add(OnChange(func(change.ValueChange[int]) {}))
	v.Set(2)

	c := NewStatsCollector(r)
	// one registration gauge plus four series per observable
	assert.Equal(t, 9, testutil.CollectAndCount(c))

	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(`
# HELP gluekit_registered_observables Observables currently registered
# TYPE gluekit_registered_observables gauge
gluekit_registered_observables 2
`), "gluekit_registered_observables"))

	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(`
# HELP gluekit_observable_elements Current element count of the observable
# TYPE gluekit_observable_elements gauge
gluekit_observable_elements{name="tags"} 3
gluekit_observable_elements{name="value"} 1
`), "gluekit_observable_elements"))

	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(`
# HELP gluekit_observable_changes_total Total changes accepted by the observable
# TYPE gluekit_observable_changes_total counter
gluekit_observable_changes_total{name="tags"} 0
gluekit_observable_changes_total{name="value"} 1
`), "gluekit_observable_changes_total"))
}
