package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersOnGivenRegistry(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterCompletionsMarked.Inc()
	m.CounterSessions.WithLabelValues("completed").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterCompletionsMarked))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterSessions.WithLabelValues("completed")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["fitpal_test_completions_marked_total"])
	assert.True(t, names["fitpal_test_sessions_total"])
}

func TestNewTestManager_Independent(t *testing.T) {
	// separate registries, so building twice must not panic
	require.NotPanics(t, func() {
		NewTestManager()
		NewTestManager()
	})
}

func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus()
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
