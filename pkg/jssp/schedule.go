package jssp

// Assignment is the scheduling state of one operation. The explicit
// Scheduled flag keeps a zero-duration operation placed at t=0
// distinguishable from an unscheduled one.
type Assignment struct {
	Start     int
	End       int
	Scheduled bool
}

// MachineSchedule holds the operations committed to one machine, in
// scheduling order, and the time at which the machine next becomes free.
// Available always equals the end time of the last committed operation
// (0 if none).
type MachineSchedule struct {
	ID        int
	Ops       []int // operation ids in scheduling order
	Available int
}

// Schedule is the mutable result of a solve pass over an Instance: one
// assignment per operation in the arena plus one queue per machine. It is
// kept separate from the Instance so solving never touches the problem
// description.
type Schedule struct {
	Ops      []Assignment
	Machines []MachineSchedule
}

// NewSchedule returns an empty schedule sized for the given instance.
func NewSchedule(in *Instance) *Schedule {
	s := &Schedule{
		Ops:      make([]Assignment, len(in.Operations)),
		Machines: make([]MachineSchedule, in.NumMachines),
	}
	for m := range s.Machines {
		s.Machines[m].ID = m
	}
	return s
}

// Assign commits one operation at the given start time: it sets the
// operation's start/end, appends it to its machine's queue, and advances the
// machine's available time. This is the single mutation point for schedule
// state. Unknown operation or machine ids are a silent no-op.
func (s *Schedule) Assign(in *Instance, opID, start int) bool {
	op := in.Operation(opID)
	if op == nil || op.Machine < 0 || op.Machine >= len(s.Machines) {
		return false
	}
	end := start + op.Duration
	s.Ops[opID] = Assignment{Start: start, End: end, Scheduled: true}
	m := &s.Machines[op.Machine]
	m.Ops = append(m.Ops, opID)
	m.Available = end
	return true
}

// Reset clears every assignment and machine queue.
func (s *Schedule) Reset() {
	for i := range s.Ops {
		s.Ops[i] = Assignment{}
	}
	for m := range s.Machines {
		s.Machines[m].Ops = nil
		s.Machines[m].Available = 0
	}
}

// Scheduled reports whether the given operation has been committed.
func (s *Schedule) Scheduled(opID int) bool {
	return opID >= 0 && opID < len(s.Ops) && s.Ops[opID].Scheduled
}

// Assignment returns the scheduling state of one operation.
func (s *Schedule) Assignment(opID int) (Assignment, bool) {
	if opID < 0 || opID >= len(s.Ops) {
		return Assignment{}, false
	}
	return s.Ops[opID], true
}

// Machine returns the schedule of the machine with the given id, or nil if
// out of range.
func (s *Schedule) Machine(machineID int) *MachineSchedule {
	if machineID < 0 || machineID >= len(s.Machines) {
		return nil
	}
	return &s.Machines[machineID]
}

// Clone returns a deep copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}
	out := &Schedule{
		Ops:      append([]Assignment(nil), s.Ops...),
		Machines: make([]MachineSchedule, len(s.Machines)),
	}
	for m, ms := range s.Machines {
		out.Machines[m] = MachineSchedule{
			ID:        ms.ID,
			Ops:       append([]int(nil), ms.Ops...),
			Available: ms.Available,
		}
	}
	return out
}

// JobCompletion returns the maximum end time among the scheduled operations
// of one job, or 0 if none are scheduled.
func JobCompletion(in *Instance, s *Schedule, jobID int) int {
	job := in.Job(jobID)
	if job == nil {
		return 0
	}
	completion := 0
	for _, opID := range job.Ops {
		if a, ok := s.Assignment(opID); ok && a.Scheduled && a.End > completion {
			completion = a.End
		}
	}
	return completion
}

// Metrics summarizes a completed schedule.
type Metrics struct {
	Makespan            int     `json:"makespan" xml:"makespan"`
	TotalCompletionTime int     `json:"totalCompletionTime" xml:"totalCompletionTime"`
	AvgFlowTime         float64 `json:"averageFlowTime" xml:"averageFlowTime"`
}

// ComputeMetrics derives makespan, total completion time, and average flow
// time from the schedule's current end times. It is a pure function of its
// inputs and idempotent: repeated calls on unchanged data yield identical
// values. A zero-job instance yields all-zero metrics.
func ComputeMetrics(in *Instance, s *Schedule) Metrics {
	var m Metrics
	for _, job := range in.Jobs {
		completion := JobCompletion(in, s, job.ID)
		m.TotalCompletionTime += completion
		if completion > m.Makespan {
			m.Makespan = completion
		}
	}
	if len(in.Jobs) > 0 {
		m.AvgFlowTime = float64(m.TotalCompletionTime) / float64(len(in.Jobs))
	}
	return m
}

// Result is the outcome of one solve call: a snapshot of the problem, the
// computed schedule, the derived metrics, and the number of operations the
// solver could not place (non-zero only for malformed inputs).
type Result struct {
	Problem  *Instance
	Schedule *Schedule
	Metrics  Metrics
	Unplaced int
}

// NewResult snapshots the instance and schedule so later mutation of the
// originals cannot alias into the stored result, then computes metrics.
func NewResult(in *Instance, s *Schedule, unplaced int) *Result {
	r := &Result{
		Problem:  in.Clone(),
		Schedule: s.Clone(),
		Unplaced: unplaced,
	}
	r.Metrics = ComputeMetrics(r.Problem, r.Schedule)
	return r
}
