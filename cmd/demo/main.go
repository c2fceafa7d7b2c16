package main

// Scripted walkthrough: solves the built-in sample instance with every
// dispatch rule, compares the extremes, and prints a terminal gantt chart.

import (
	"fmt"
	"log"
	"os"

	"github.com/jobshop-dev/jobshop/internal/gantt"
	"github.com/jobshop-dev/jobshop/internal/parser"
	"github.com/jobshop-dev/jobshop/internal/runner"
	"github.com/jobshop-dev/jobshop/internal/solver"
	"github.com/jobshop-dev/jobshop/pkg/jssp"
)

func main() {
	in := parser.Sample()
	fmt.Printf("Sample instance: %d jobs, %d machines, %d operations\n\n",
		in.NumJobs, in.NumMachines, in.TotalOperations())

	rules := solver.Rules()
	outcomes := runner.RunAll(in, rules)

	results := make(map[solver.Rule]*jssp.Result, len(outcomes))
	for _, oc := range outcomes {
		if oc.Err != nil {
			log.Fatalf("Failed to solve with %s: %v", oc.Rule.DisplayName(), oc.Err)
		}
		results[oc.Rule] = oc.Result
		fmt.Printf("%-35s makespan=%d  totalCompletion=%d  avgFlow=%.2f\n",
			oc.Rule.DisplayName(), oc.Result.Metrics.Makespan,
			oc.Result.Metrics.TotalCompletionTime, oc.Result.Metrics.AvgFlowTime)
	}
	fmt.Println()

	solver.Compare(os.Stdout, results[solver.SPT], results[solver.LPT],
		solver.SPT.DisplayName(), solver.LPT.DisplayName())

	fmt.Println("\nFIFO schedule:")
	gantt.RenderText(os.Stdout, results[solver.FIFO])
}
