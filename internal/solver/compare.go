package solver

import (
	"fmt"
	"io"
	"strings"

	"github.com/jobshop-dev/jobshop/pkg/jssp"
)

// Compare writes a side-by-side report of two results and names the one
// with the lower makespan as the better solution (equal makespans are
// reported as a tie). It only reads the results.
func Compare(w io.Writer, r1, r2 *jssp.Result, name1, name2 string) {
	if name1 == "" {
		name1 = "Algorithm 1"
	}
	if name2 == "" {
		name2 = "Algorithm 2"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Algorithm Comparison ===")
	fmt.Fprintf(w, "%-24s%32s%32s\n", "Metric", name1, name2)
	fmt.Fprintln(w, strings.Repeat("-", 88))
	fmt.Fprintf(w, "%-24s%32d%32d\n", "Makespan", r1.Metrics.Makespan, r2.Metrics.Makespan)
	fmt.Fprintf(w, "%-24s%32d%32d\n", "Total Completion Time",
		r1.Metrics.TotalCompletionTime, r2.Metrics.TotalCompletionTime)
	fmt.Fprintf(w, "%-24s%32.2f%32.2f\n", "Average Flow Time",
		r1.Metrics.AvgFlowTime, r2.Metrics.AvgFlowTime)

	fmt.Fprint(w, "\nBetter Solution: ")
	switch {
	case r1.Metrics.Makespan < r2.Metrics.Makespan:
		fmt.Fprintf(w, "%s (lower makespan)\n", name1)
	case r2.Metrics.Makespan < r1.Metrics.Makespan:
		fmt.Fprintf(w, "%s (lower makespan)\n", name2)
	default:
		fmt.Fprintln(w, "Tie (equal makespan)")
	}
}
