// Package runner fans independent solve calls out to a bounded pool of
// goroutines. Solving never mutates the shared instance, so the runs
// operate on disjoint data and are safe to execute concurrently.
package runner

import (
	"sync"

	"github.com/jobshop-dev/jobshop/internal/solver"
	"github.com/jobshop-dev/jobshop/pkg/jssp"
)

// Outcome is the result of solving one instance under one dispatch rule.
type Outcome struct {
	Rule   solver.Rule
	Result *jssp.Result
	Err    error
}

// Pool runs solves with at most `workers` goroutines in flight.
type Pool struct {
	workers int
}

// NewPool creates a pool. A non-positive worker count falls back to 1.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// RunAll solves the instance once per rule and returns outcomes in rule
// order, regardless of completion order.
func (p *Pool) RunAll(in *jssp.Instance, rules []solver.Rule) []Outcome {
	outcomes := make([]Outcome, len(rules))

	taskCh := make(chan int, len(rules))
	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskCh {
				rule := rules[i]
				result, err := solver.New(rule).Solve(in)
				outcomes[i] = Outcome{Rule: rule, Result: result, Err: err}
			}
		}()
	}

	for i := range rules {
		taskCh <- i
	}
	close(taskCh)
	wg.Wait()

	return outcomes
}

// RunAll is a convenience wrapper running one goroutine per rule.
func RunAll(in *jssp.Instance, rules []solver.Rule) []Outcome {
	return NewPool(len(rules)).RunAll(in, rules)
}
