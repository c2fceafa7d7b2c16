package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobshop-dev/jobshop/pkg/jssp"
)

func solveFor(t *testing.T, rule Rule, in *jssp.Instance) *jssp.Result {
	t.Helper()
	res, err := New(rule).Solve(in)
	require.NoError(t, err)
	return res
}

func TestCompareNamesBetterSolution(t *testing.T) {
	short := jssp.NewInstance(1, 1)
	short.AddOperation(0, 0, 3)
	long := jssp.NewInstance(1, 1)
	long.AddOperation(0, 0, 8)

	r1 := solveFor(t, FIFO, short)
	r2 := solveFor(t, FIFO, long)

	var b strings.Builder
	Compare(&b, r1, r2, "Fast", "Slow")
	out := b.String()

	assert.Contains(t, out, "=== Algorithm Comparison ===")
	assert.Contains(t, out, "Makespan")
	assert.Contains(t, out, "Total Completion Time")
	assert.Contains(t, out, "Average Flow Time")
	assert.Contains(t, out, "Better Solution: Fast (lower makespan)")

	b.Reset()
	Compare(&b, r2, r1, "Slow", "Fast")
	assert.Contains(t, b.String(), "Better Solution: Fast (lower makespan)",
		"The second result should win when its makespan is lower")
}

func TestCompareTie(t *testing.T) {
	in := jssp.NewInstance(1, 1)
	in.AddOperation(0, 0, 4)

	r1 := solveFor(t, FIFO, in)
	r2 := solveFor(t, SPT, in)

	var b strings.Builder
	Compare(&b, r1, r2, "", "")
	out := b.String()

	assert.Contains(t, out, "Tie (equal makespan)")
	assert.Contains(t, out, "Algorithm 1", "Empty names should fall back to defaults")
	assert.Contains(t, out, "Algorithm 2")
}
