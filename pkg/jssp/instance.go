// Package jssp defines the job shop scheduling domain model: immutable
// problem instances, the schedules computed for them, and the metrics
// derived from a completed schedule.
package jssp

import (
	"errors"
	"fmt"
)

// Operation is a single unit of work: one pass of one job over one machine.
//
// IDs are assigned by a global auto-increment in declaration order. Within a
// job, an operation with a smaller ID must complete before a later one may
// start. The ID is the authoritative precedence key; slice position is never
// trusted for ordering.
type Operation struct {
	ID       int `json:"operationId"`
	Job      int `json:"jobId"`
	Machine  int `json:"machineId"`
	Duration int `json:"processingTime"`
}

// Job groups the operations belonging to one job id, in append order.
type Job struct {
	ID  int
	Ops []int // operation ids into the instance arena
}

// Instance is a complete description of a scheduling problem. Operations
// live in a single arena; jobs reference them by id. An Instance is not
// mutated by solving.
type Instance struct {
	NumJobs     int
	NumMachines int
	Jobs        []Job
	Operations  []Operation
}

// NewInstance creates an instance with the given number of empty jobs and
// machines.
func NewInstance(numJobs, numMachines int) *Instance {
	in := &Instance{
		NumJobs:     numJobs,
		NumMachines: numMachines,
		Jobs:        make([]Job, 0, max(numJobs, 0)),
	}
	for i := 0; i < numJobs; i++ {
		in.Jobs = append(in.Jobs, Job{ID: i})
	}
	return in
}

// AddOperation appends an operation to the given job and returns its id.
// An out-of-range job id is a silent no-op, reported through ok=false.
func (in *Instance) AddOperation(jobID, machineID, duration int) (id int, ok bool) {
	if jobID < 0 || jobID >= len(in.Jobs) {
		return -1, false
	}
	id = len(in.Operations)
	in.Operations = append(in.Operations, Operation{
		ID:       id,
		Job:      jobID,
		Machine:  machineID,
		Duration: duration,
	})
	in.Jobs[jobID].Ops = append(in.Jobs[jobID].Ops, id)
	return id, true
}

// Job returns the job with the given id, or nil if out of range.
func (in *Instance) Job(jobID int) *Job {
	if jobID < 0 || jobID >= len(in.Jobs) {
		return nil
	}
	return &in.Jobs[jobID]
}

// Operation returns the operation with the given id, or nil if out of range.
func (in *Instance) Operation(opID int) *Operation {
	if opID < 0 || opID >= len(in.Operations) {
		return nil
	}
	return &in.Operations[opID]
}

// TotalOperations returns the number of operations across all jobs.
func (in *Instance) TotalOperations() int {
	return len(in.Operations)
}

// Clone returns a deep copy that shares no state with the receiver.
func (in *Instance) Clone() *Instance {
	if in == nil {
		return nil
	}
	out := &Instance{
		NumJobs:     in.NumJobs,
		NumMachines: in.NumMachines,
		Jobs:        make([]Job, len(in.Jobs)),
		Operations:  append([]Operation(nil), in.Operations...),
	}
	for i, j := range in.Jobs {
		out.Jobs[i] = Job{ID: j.ID, Ops: append([]int(nil), j.Ops...)}
	}
	return out
}

// Validate checks that declared counts match the collections and that every
// operation references a valid job and machine with a positive duration.
func (in *Instance) Validate() error {
	if in == nil {
		return errors.New("instance is nil")
	}
	if in.NumJobs < 0 || in.NumMachines < 0 {
		return fmt.Errorf("negative job or machine count (%d jobs, %d machines)", in.NumJobs, in.NumMachines)
	}
	if len(in.Jobs) != in.NumJobs {
		return fmt.Errorf("declared %d jobs but holds %d", in.NumJobs, len(in.Jobs))
	}
	for i, op := range in.Operations {
		if op.Job < 0 || op.Job >= in.NumJobs {
			return fmt.Errorf("operation %d references job %d (have %d jobs)", i, op.Job, in.NumJobs)
		}
		if op.Machine < 0 || op.Machine >= in.NumMachines {
			return fmt.Errorf("operation %d references machine %d (have %d machines)", i, op.Machine, in.NumMachines)
		}
		if op.Duration <= 0 {
			return fmt.Errorf("operation %d has non-positive duration %d", i, op.Duration)
		}
	}
	return nil
}
