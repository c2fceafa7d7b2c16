// Package solver implements greedy list scheduling for the job shop
// problem: a dispatch rule picks among ready operations, and each pick is
// committed at its earliest feasible start. Feasibility (intra-job
// precedence plus machine exclusivity) holds by construction at every
// commit; the solver never backtracks.
package solver

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/jobshop-dev/jobshop/pkg/jssp"
)

// Solver runs the list-scheduling pass for one configured dispatch rule.
// It carries no other state: every Solve call is a self-contained
// reset-then-fill pass.
type Solver struct {
	rule Rule
}

// New creates a solver configured with the given dispatch rule.
func New(rule Rule) *Solver {
	return &Solver{rule: rule}
}

// NewFIFO creates a solver using declaration-order dispatch.
func NewFIFO() *Solver { return New(FIFO) }

// NewSPT creates a solver preferring short operations.
func NewSPT() *Solver { return New(SPT) }

// NewLPT creates a solver preferring long operations.
func NewLPT() *Solver { return New(LPT) }

// Rule returns the configured dispatch rule.
func (s *Solver) Rule() Rule { return s.rule }

// SetRule replaces the configured dispatch rule.
func (s *Solver) SetRule(r Rule) { s.rule = r }

// Solve schedules every operation of the instance under the configured rule
// and returns a self-contained result. The input instance is not mutated.
//
// A nil instance is the only error case. Operations that can never be
// placed (dangling machine references) are non-fatal: they are logged,
// counted on the result, and everything else is scheduled around them.
func (s *Solver) Solve(in *jssp.Instance) (*jssp.Result, error) {
	if in == nil {
		return nil, errors.New("cannot solve: problem instance is nil")
	}

	sched := jssp.NewSchedule(in)
	switch s.rule {
	case FIFO:
		dispatchFIFO(in, sched)
	case SPT:
		dispatchPriority(in, sched, func(a, b *jssp.Operation) int {
			return a.Duration - b.Duration
		})
	case LPT:
		dispatchPriority(in, sched, func(a, b *jssp.Operation) int {
			return b.Duration - a.Duration
		})
	default:
		return nil, fmt.Errorf("unknown dispatch rule %d", int(s.rule))
	}

	unplaced := 0
	for id := range in.Operations {
		if !sched.Scheduled(id) {
			unplaced++
		}
	}
	if unplaced > 0 {
		log.Printf("solver: %d operation(s) could not be placed, check machine references", unplaced)
	}

	result := jssp.NewResult(in, sched, unplaced)
	log.Printf("solver: %s makespan=%d totalCompletionTime=%d avgFlowTime=%.2f",
		s.rule.DisplayName(), result.Metrics.Makespan,
		result.Metrics.TotalCompletionTime, result.Metrics.AvgFlowTime)
	return result, nil
}

// predecessorsScheduled reports whether every same-job sibling with a
// strictly smaller operation id is already committed.
func predecessorsScheduled(in *jssp.Instance, sched *jssp.Schedule, op *jssp.Operation) bool {
	job := in.Job(op.Job)
	if job == nil {
		return true
	}
	for _, sibID := range job.Ops {
		if sibID < op.ID && !sched.Scheduled(sibID) {
			return false
		}
	}
	return true
}

// jobReadyTime returns the maximum end time among the operation's same-job
// predecessors, 0 if it has none.
func jobReadyTime(in *jssp.Instance, sched *jssp.Schedule, op *jssp.Operation) int {
	job := in.Job(op.Job)
	if job == nil {
		return 0
	}
	ready := 0
	for _, sibID := range job.Ops {
		if sibID >= op.ID {
			continue
		}
		if a, ok := sched.Assignment(sibID); ok && a.Scheduled && a.End > ready {
			ready = a.End
		}
	}
	return ready
}

// commit places one operation at its earliest feasible start: the later of
// its machine's available time and its job-ready time.
func commit(in *jssp.Instance, sched *jssp.Schedule, op *jssp.Operation) bool {
	m := sched.Machine(op.Machine)
	if m == nil {
		return false
	}
	start := m.Available
	if jr := jobReadyTime(in, sched, op); jr > start {
		start = jr
	}
	return sched.Assign(in, op.ID, start)
}

// dispatchFIFO walks jobs and operations in declaration order, committing
// each operation the moment its predecessors are all placed. A job's chain
// may therefore extend within a single sweep. The loop terminates without a
// round cap: every sweep either commits at least one operation or exits.
func dispatchFIFO(in *jssp.Instance, sched *jssp.Schedule) {
	for progress := true; progress; {
		progress = false
		for j := range in.Jobs {
			for _, opID := range in.Jobs[j].Ops {
				if sched.Scheduled(opID) {
					continue
				}
				op := in.Operation(opID)
				if !predecessorsScheduled(in, sched, op) {
					continue
				}
				if commit(in, sched, op) {
					progress = true
				}
			}
		}
	}
}

// dispatchPriority repeats rounds of: collect the ready set, stable-sort it
// by the rule's comparator, and commit greedily in that order. Commits made
// earlier in a round are visible to later ones through the machine
// available times.
//
// The ready set is collected job-major, so equal-duration ties resolve by
// job order under the stable sort even when the instance file interleaves
// jobs' rows.
func dispatchPriority(in *jssp.Instance, sched *jssp.Schedule, cmp func(a, b *jssp.Operation) int) {
	for {
		var ready []*jssp.Operation
		for j := range in.Jobs {
			for _, opID := range in.Jobs[j].Ops {
				op := in.Operation(opID)
				if sched.Scheduled(opID) || !predecessorsScheduled(in, sched, op) {
					continue
				}
				ready = append(ready, op)
			}
		}
		if len(ready) == 0 {
			return
		}

		slices.SortStableFunc(ready, cmp)

		progress := false
		for _, op := range ready {
			if commit(in, sched, op) {
				progress = true
			}
		}
		if !progress {
			// Remaining ready operations reference machines that do not
			// exist; nothing more can be placed.
			return
		}
	}
}
