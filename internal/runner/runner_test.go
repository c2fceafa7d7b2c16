package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobshop-dev/jobshop/internal/parser"
	"github.com/jobshop-dev/jobshop/internal/solver"
)

func TestRunAllPreservesRuleOrder(t *testing.T) {
	in := parser.Sample()
	rules := solver.Rules()

	outcomes := RunAll(in, rules)
	require.Len(t, outcomes, len(rules))

	for i, oc := range outcomes {
		assert.Equal(t, rules[i], oc.Rule, "Outcome %d should match rule order", i)
		require.NoError(t, oc.Err, "%s should solve the sample", oc.Rule)
		require.NotNil(t, oc.Result)
		assert.Zero(t, oc.Result.Unplaced)
	}

	// Identical instance + rule must yield identical metrics regardless of
	// concurrent execution.
	again := RunAll(in, rules)
	for i := range outcomes {
		assert.Equal(t, outcomes[i].Result.Metrics, again[i].Result.Metrics,
			"%s should be deterministic", outcomes[i].Rule)
	}
}

func TestRunAllNilInstance(t *testing.T) {
	outcomes := RunAll(nil, solver.Rules())
	require.Len(t, outcomes, 3)
	for _, oc := range outcomes {
		assert.Error(t, oc.Err, "%s should report the nil instance", oc.Rule)
		assert.Nil(t, oc.Result)
	}
}

func TestPoolBoundsWorkers(t *testing.T) {
	p := NewPool(0)
	assert.Equal(t, 1, p.workers, "Non-positive worker counts fall back to 1")

	outcomes := NewPool(1).RunAll(parser.Sample(), solver.Rules())
	require.Len(t, outcomes, 3)
	for _, oc := range outcomes {
		require.NoError(t, oc.Err)
	}
}

func TestRunAllEmptyRules(t *testing.T) {
	outcomes := RunAll(parser.Sample(), nil)
	assert.Empty(t, outcomes, "No rules means no outcomes")
}
