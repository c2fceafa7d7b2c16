// Package parser reads and writes job shop instances in the plain-text
// exchange format: a header line "numJobs numMachines" followed by one
// "jobId machineId processingTime" row per operation. Row order assigns
// operation ids and therefore intra-job precedence.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/jobshop-dev/jobshop/pkg/jssp"
)

// ParseFile reads an instance from a file.
func ParseFile(path string) (*jssp.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open instance file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// ParseString reads an instance from an in-memory document.
func ParseString(data string) (*jssp.Instance, error) {
	return Parse(strings.NewReader(data))
}

// Parse reads an instance from a stream. Rows with out-of-range ids or a
// non-positive duration are skipped with a warning so they never reach the
// solver; an unreadable header or zero valid operations is an error.
func Parse(r io.Reader) (*jssp.Instance, error) {
	sc := bufio.NewScanner(r)

	numJobs, numMachines, err := readHeader(sc)
	if err != nil {
		return nil, err
	}

	in := jssp.NewInstance(numJobs, numMachines)
	validOps := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		jobID, machineID, duration, ok := parseRow(line)
		if !ok || jobID < 0 || jobID >= numJobs ||
			machineID < 0 || machineID >= numMachines || duration <= 0 {
			log.Printf("parser: skipping invalid operation row %q", line)
			continue
		}
		in.AddOperation(jobID, machineID, duration)
		validOps++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading instance: %w", err)
	}
	if validOps == 0 {
		return nil, errors.New("no valid operations found")
	}

	log.Printf("parser: %d jobs, %d machines, %d operations", numJobs, numMachines, validOps)
	return in, nil
}

func readHeader(sc *bufio.Scanner) (numJobs, numMachines int, err error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, 0, fmt.Errorf("malformed header line %q", line)
		}
		numJobs, err = strconv.Atoi(fields[0])
		if err != nil {
			return 0, 0, fmt.Errorf("malformed header line %q", line)
		}
		numMachines, err = strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, fmt.Errorf("malformed header line %q", line)
		}
		if numJobs <= 0 || numMachines <= 0 {
			return 0, 0, fmt.Errorf("invalid number of jobs or machines (%d, %d)", numJobs, numMachines)
		}
		return numJobs, numMachines, nil
	}
	if err := sc.Err(); err != nil {
		return 0, 0, fmt.Errorf("reading instance header: %w", err)
	}
	return 0, 0, errors.New("no valid operations found: empty input")
}

func parseRow(line string) (jobID, machineID, duration int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, 0, false
	}
	var err error
	if jobID, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, 0, false
	}
	if machineID, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, 0, false
	}
	if duration, err = strconv.Atoi(fields[2]); err != nil {
		return 0, 0, 0, false
	}
	return jobID, machineID, duration, true
}

// WriteFile saves an instance in the text format so it can be re-parsed.
func WriteFile(in *jssp.Instance, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create instance file: %w", err)
	}
	defer f.Close()
	return Write(f, in)
}

// Write emits the header plus one row per operation in declaration order.
func Write(w io.Writer, in *jssp.Instance) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", in.NumJobs, in.NumMachines); err != nil {
		return err
	}
	for _, op := range in.Operations {
		if _, err := fmt.Fprintf(w, "%d %d %d\n", op.Job, op.Machine, op.Duration); err != nil {
			return err
		}
	}
	return nil
}

// Sample returns the built-in 3-job, 3-machine demo instance.
func Sample() *jssp.Instance {
	in := jssp.NewInstance(3, 3)

	// Job 0: M0(2), M1(3), M2(1)
	in.AddOperation(0, 0, 2)
	in.AddOperation(0, 1, 3)
	in.AddOperation(0, 2, 1)

	// Job 1: M1(1), M2(2), M0(3)
	in.AddOperation(1, 1, 1)
	in.AddOperation(1, 2, 2)
	in.AddOperation(1, 0, 3)

	// Job 2: M2(3), M0(1), M1(2)
	in.AddOperation(2, 2, 3)
	in.AddOperation(2, 0, 1)
	in.AddOperation(2, 1, 2)

	return in
}

// RandomConfig bounds the random instance generator.
type RandomConfig struct {
	Jobs     int
	Machines int
	MinTime  int
	MaxTime  int
}

// Random generates an instance where every job visits every machine exactly
// once in a random order, with durations drawn uniformly from
// [MinTime, MaxTime]. The caller supplies the rand source so runs are
// reproducible.
func Random(cfg RandomConfig, rng *rand.Rand) (*jssp.Instance, error) {
	if rng == nil {
		return nil, errors.New("random source is nil")
	}
	if cfg.Jobs <= 0 || cfg.Machines <= 0 {
		return nil, fmt.Errorf("invalid number of jobs or machines (%d, %d)", cfg.Jobs, cfg.Machines)
	}
	if cfg.MinTime <= 0 || cfg.MaxTime < cfg.MinTime {
		return nil, fmt.Errorf("invalid duration bounds [%d, %d]", cfg.MinTime, cfg.MaxTime)
	}

	in := jssp.NewInstance(cfg.Jobs, cfg.Machines)
	span := cfg.MaxTime - cfg.MinTime + 1
	for j := 0; j < cfg.Jobs; j++ {
		for _, m := range rng.Perm(cfg.Machines) {
			in.AddOperation(j, m, cfg.MinTime+rng.Intn(span))
		}
	}
	return in, nil
}
