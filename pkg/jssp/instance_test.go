package jssp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newChainInstance builds one job visiting machines 0..n-1 in order with the
// given durations.
func newChainInstance(t *testing.T, durations ...int) *Instance {
	t.Helper()
	in := NewInstance(1, len(durations))
	for m, d := range durations {
		_, ok := in.AddOperation(0, m, d)
		require.True(t, ok, "AddOperation should accept job 0")
	}
	return in
}

func TestNewInstance(t *testing.T) {
	in := NewInstance(3, 2)

	assert.Equal(t, 3, in.NumJobs, "NumJobs should match")
	assert.Equal(t, 2, in.NumMachines, "NumMachines should match")
	assert.Len(t, in.Jobs, 3, "Should hold one Job per declared job")
	for i, job := range in.Jobs {
		assert.Equal(t, i, job.ID, "Job ids should be sequential")
		assert.Empty(t, job.Ops, "New jobs should have no operations")
	}
	assert.Zero(t, in.TotalOperations(), "New instance should have no operations")
}

func TestAddOperationAssignsSequentialIDs(t *testing.T) {
	in := NewInstance(2, 2)

	id0, ok := in.AddOperation(0, 0, 5)
	require.True(t, ok)
	id1, ok := in.AddOperation(1, 1, 3)
	require.True(t, ok)
	id2, ok := in.AddOperation(0, 1, 2)
	require.True(t, ok)

	assert.Equal(t, 0, id0, "First operation should get id 0")
	assert.Equal(t, 1, id1, "Ids should increment across jobs")
	assert.Equal(t, 2, id2, "Ids should keep incrementing")

	assert.Equal(t, []int{0, 2}, in.Job(0).Ops, "Job 0 should list its operations in append order")
	assert.Equal(t, []int{1}, in.Job(1).Ops, "Job 1 should list its single operation")
}

func TestAddOperationRejectsUnknownJob(t *testing.T) {
	in := NewInstance(1, 1)

	id, ok := in.AddOperation(5, 0, 1)
	assert.False(t, ok, "Out-of-range job id should be rejected")
	assert.Equal(t, -1, id, "Rejected operation should report id -1")
	assert.Zero(t, in.TotalOperations(), "Rejected operation should not be stored")

	_, ok = in.AddOperation(-1, 0, 1)
	assert.False(t, ok, "Negative job id should be rejected")
}

func TestAccessorsOutOfRange(t *testing.T) {
	in := NewInstance(1, 1)
	in.AddOperation(0, 0, 4)

	assert.Nil(t, in.Job(-1), "Negative job id should yield nil")
	assert.Nil(t, in.Job(1), "Job id past the end should yield nil")
	assert.Nil(t, in.Operation(-1), "Negative operation id should yield nil")
	assert.Nil(t, in.Operation(1), "Operation id past the end should yield nil")

	op := in.Operation(0)
	require.NotNil(t, op)
	assert.Equal(t, 4, op.Duration, "Stored operation should keep its duration")
}

func TestCloneIsDeep(t *testing.T) {
	in := NewInstance(1, 2)
	in.AddOperation(0, 0, 2)
	in.AddOperation(0, 1, 3)

	clone := in.Clone()
	require.NotNil(t, clone)

	clone.AddOperation(0, 1, 9)
	clone.Operations[0].Duration = 99

	assert.Equal(t, 2, in.TotalOperations(), "Adding to the clone should not grow the original")
	assert.Equal(t, 2, in.Operations[0].Duration, "Mutating the clone should not touch the original")
	assert.Len(t, in.Job(0).Ops, 2, "Original job op list should be unchanged")

	var nilInstance *Instance
	assert.Nil(t, nilInstance.Clone(), "Cloning nil should yield nil")
}

func TestValidate(t *testing.T) {
	in := NewInstance(2, 2)
	in.AddOperation(0, 0, 1)
	in.AddOperation(1, 1, 2)
	assert.NoError(t, in.Validate(), "Well-formed instance should validate")

	bad := NewInstance(1, 1)
	bad.AddOperation(0, 3, 1)
	err := bad.Validate()
	require.Error(t, err, "Dangling machine reference should fail validation")
	assert.Contains(t, err.Error(), "machine", "Error should name the machine reference")

	zeroDur := NewInstance(1, 1)
	zeroDur.AddOperation(0, 0, 0)
	err = zeroDur.Validate()
	require.Error(t, err, "Non-positive duration should fail validation")
	assert.Contains(t, err.Error(), "duration", "Error should name the duration")

	var nilInstance *Instance
	assert.Error(t, nilInstance.Validate(), "Nil instance should fail validation")
}
