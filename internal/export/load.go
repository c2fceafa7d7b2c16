package export

import (
	"bufio"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/jobshop-dev/jobshop/pkg/jssp"
)

// LoadSolution reads a previously exported solution in any of the three
// formats, sniffing the format from the content rather than the extension.
func LoadSolution(path string) (*jssp.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open solution file: %w", err)
	}

	head := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(head, "JSSP SOLUTION EXPORT"):
		return loadTextSolution(string(data))
	case strings.HasPrefix(head, "<?xml"), strings.HasPrefix(head, "<jssp_solution"):
		return loadXMLSolution(data)
	case strings.HasPrefix(head, "{"):
		return loadJSONSolution(data)
	default:
		return nil, errors.New("unknown solution file format")
	}
}

func loadJSONSolution(data []byte) (*jssp.Result, error) {
	var doc solutionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON solution: %w", err)
	}
	return docToResult(doc)
}

func loadXMLSolution(data []byte) (*jssp.Result, error) {
	var doc solutionDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing XML solution: %w", err)
	}
	return docToResult(doc)
}

// docToResult rebuilds a Result from the wire document. Operations are
// inserted in operationId order so arena ids line up with the exported ids;
// machine queues and available times come from the machines section as-is.
func docToResult(doc solutionDoc) (*jssp.Result, error) {
	if doc.Problem.NumJobs < 0 || doc.Problem.NumMachines < 0 {
		return nil, errors.New("solution declares negative job or machine count")
	}

	in := jssp.NewInstance(doc.Problem.NumJobs, doc.Problem.NumMachines)

	sorted := append([]operationDoc(nil), doc.Operations...)
	slices.SortStableFunc(sorted, func(a, b operationDoc) int {
		return a.OperationID - b.OperationID
	})

	idMap := make(map[int]int, len(sorted))
	for _, od := range sorted {
		id, ok := in.AddOperation(od.JobID, od.MachineID, od.ProcessingTime)
		if !ok {
			continue
		}
		idMap[od.OperationID] = id
	}

	sched := jssp.NewSchedule(in)
	for _, od := range sorted {
		if !od.Scheduled {
			continue
		}
		if id, ok := idMap[od.OperationID]; ok {
			sched.Ops[id] = jssp.Assignment{Start: od.StartTime, End: od.EndTime, Scheduled: true}
		}
	}

	for _, md := range doc.Machines {
		ms := sched.Machine(md.MachineID)
		if ms == nil {
			continue
		}
		ms.Available = md.AvailableTime
		for _, sd := range md.ScheduledOperations {
			id, ok := idMap[sd.OperationID]
			if !ok {
				continue
			}
			ms.Ops = append(ms.Ops, id)
			sched.Ops[id] = jssp.Assignment{Start: sd.StartTime, End: sd.EndTime, Scheduled: true}
		}
	}

	unplaced := 0
	for id := range in.Operations {
		if !sched.Scheduled(id) {
			unplaced++
		}
	}

	return &jssp.Result{
		Problem:  in,
		Schedule: sched,
		Metrics:  doc.Metrics,
		Unplaced: unplaced,
	}, nil
}

// loadTextSolution parses the sectioned text report back into a wire
// document, then rebuilds the result from it. The text format only lists
// scheduled operations, so unscheduled ones are not recoverable from it.
func loadTextSolution(data string) (*jssp.Result, error) {
	var doc solutionDoc

	const (
		secMetadata = iota
		secResults
		secMachines
		secMetrics
	)
	section := secMetadata
	var machine *machineDoc

	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		switch trimmed {
		case "SCHEDULING RESULTS:":
			section = secResults
			continue
		case "MACHINE SCHEDULES:":
			section = secMachines
			continue
		case "PERFORMANCE METRICS:":
			section = secMetrics
			continue
		}

		switch section {
		case secMetadata:
			if v, ok := intSuffix(trimmed, "Jobs: "); ok {
				doc.Problem.NumJobs = v
			} else if v, ok := intSuffix(trimmed, "Machines: "); ok {
				doc.Problem.NumMachines = v
			} else if v, ok := intSuffix(trimmed, "Total Operations: "); ok {
				doc.Problem.TotalOperations = v
			}

		case secResults:
			// Handled by parseTextOperations, which tracks the owning
			// "Job N:" header for each indented operation row.

		case secMachines:
			var machineID int
			if strings.HasPrefix(trimmed, "Machine ") && strings.HasSuffix(trimmed, ":") {
				if _, err := fmt.Sscanf(trimmed, "Machine %d:", &machineID); err == nil {
					doc.Machines = append(doc.Machines, machineDoc{MachineID: machineID})
					machine = &doc.Machines[len(doc.Machines)-1]
				}
				continue
			}
			var jobID, opID, start, end int
			if _, err := fmt.Sscanf(trimmed, "Job %d Operation %d [%d-%d]", &jobID, &opID, &start, &end); err == nil && machine != nil {
				machine.ScheduledOperations = append(machine.ScheduledOperations, scheduledDoc{
					JobID: jobID, OperationID: opID, StartTime: start, EndTime: end,
				})
				if end > machine.AvailableTime {
					machine.AvailableTime = end
				}
			}

		case secMetrics:
			if v, ok := intSuffix(trimmed, "Makespan: "); ok {
				doc.Metrics.Makespan = v
			} else if v, ok := intSuffix(trimmed, "Total Completion Time: "); ok {
				doc.Metrics.TotalCompletionTime = v
			} else if rest, ok := strings.CutPrefix(trimmed, "Average Flow Time: "); ok {
				if f, err := strconv.ParseFloat(strings.TrimSpace(rest), 64); err == nil {
					doc.Metrics.AvgFlowTime = f
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading solution text: %w", err)
	}

	doc.Operations = parseTextOperations(data)
	return docToResult(doc)
}

// parseTextOperations extracts the per-job operation rows, carrying the
// owning job from each "Job N:" header down to its indented rows.
func parseTextOperations(data string) []operationDoc {
	var ops []operationDoc

	inResults := false
	currentJob := -1
	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		trimmed := strings.TrimSpace(sc.Text())
		switch trimmed {
		case "SCHEDULING RESULTS:":
			inResults = true
			continue
		case "MACHINE SCHEDULES:":
			return ops
		}
		if !inResults {
			continue
		}

		var jobID int
		if strings.HasPrefix(trimmed, "Job ") && strings.HasSuffix(trimmed, ":") {
			if _, err := fmt.Sscanf(trimmed, "Job %d:", &jobID); err == nil {
				currentJob = jobID
			}
			continue
		}

		var opID, machineID, start, end int
		if _, err := fmt.Sscanf(trimmed, "Operation %d: Machine %d [%d-%d]", &opID, &machineID, &start, &end); err == nil && currentJob >= 0 {
			ops = append(ops, operationDoc{
				JobID:          currentJob,
				MachineID:      machineID,
				ProcessingTime: end - start,
				OperationID:    opID,
				StartTime:      start,
				EndTime:        end,
				Scheduled:      true,
			})
		}
	}
	return ops
}

func intSuffix(line, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, false
	}
	return v, true
}
