// Package export serializes schedule results to the text, JSON, and XML
// solution formats and reads them back. The field names and text layout
// are the exchange contract consumed by external tooling; changing them
// breaks round-trips.
package export

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jobshop-dev/jobshop/pkg/jssp"
)

// Format identifies a solution serialization format.
type Format int

const (
	Text Format = iota
	JSON
	XML
)

// DetectFormat picks a format from the file extension; anything that is not
// .json or .xml defaults to text.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return JSON
	case ".xml":
		return XML
	default:
		return Text
	}
}

// Name returns the display name used in selection surfaces.
func (f Format) Name() string {
	switch f {
	case Text:
		return "Text (.txt)"
	case JSON:
		return "JSON (.json)"
	case XML:
		return "XML (.xml)"
	default:
		return "Unknown"
	}
}

// ParseFormat maps a short identifier (text/json/xml) to its Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return Text, nil
	case "json":
		return JSON, nil
	case "xml":
		return XML, nil
	default:
		return Text, fmt.Errorf("unknown export format %q (want text, json, or xml)", s)
	}
}

// Export writes a result to a file in the given format.
func Export(res *jssp.Result, path string, format Format) error {
	if res == nil {
		return errors.New("cannot export nil solution")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create solution file: %w", err)
	}
	defer f.Close()

	switch format {
	case Text:
		return ExportText(f, res)
	case JSON:
		return ExportJSON(f, res)
	case XML:
		return ExportXML(f, res)
	default:
		return fmt.Errorf("unknown export format %d", int(format))
	}
}

// Wire shapes shared by the JSON and XML codecs.

type solutionDoc struct {
	XMLName    xml.Name       `json:"-" xml:"jssp_solution"`
	Problem    problemDoc     `json:"problem" xml:"problem"`
	Operations []operationDoc `json:"operations" xml:"operations>operation"`
	Machines   []machineDoc   `json:"machines" xml:"machines>machine"`
	Metrics    jssp.Metrics   `json:"metrics" xml:"metrics"`
}

type problemDoc struct {
	NumJobs         int `json:"numJobs" xml:"numJobs"`
	NumMachines     int `json:"numMachines" xml:"numMachines"`
	TotalOperations int `json:"totalOperations" xml:"totalOperations"`
}

type operationDoc struct {
	JobID          int  `json:"jobId" xml:"jobId"`
	MachineID      int  `json:"machineId" xml:"machineId"`
	ProcessingTime int  `json:"processingTime" xml:"processingTime"`
	OperationID    int  `json:"operationId" xml:"operationId"`
	StartTime      int  `json:"startTime" xml:"startTime"`
	EndTime        int  `json:"endTime" xml:"endTime"`
	Scheduled      bool `json:"scheduled" xml:"scheduled"`
}

type machineDoc struct {
	MachineID           int            `json:"machineId" xml:"machineId"`
	AvailableTime       int            `json:"availableTime" xml:"availableTime"`
	ScheduledOperations []scheduledDoc `json:"scheduledOperations" xml:"scheduledOperations>scheduledOperation"`
}

type scheduledDoc struct {
	JobID       int `json:"jobId" xml:"jobId"`
	OperationID int `json:"operationId" xml:"operationId"`
	StartTime   int `json:"startTime" xml:"startTime"`
	EndTime     int `json:"endTime" xml:"endTime"`
}

func buildDoc(res *jssp.Result) solutionDoc {
	doc := solutionDoc{
		Problem: problemDoc{
			NumJobs:         res.Problem.NumJobs,
			NumMachines:     res.Problem.NumMachines,
			TotalOperations: res.Problem.TotalOperations(),
		},
		Operations: []operationDoc{},
		Machines:   []machineDoc{},
		Metrics:    res.Metrics,
	}

	for _, job := range res.Problem.Jobs {
		for _, opID := range job.Ops {
			op := res.Problem.Operation(opID)
			a, _ := res.Schedule.Assignment(opID)
			doc.Operations = append(doc.Operations, operationDoc{
				JobID:          op.Job,
				MachineID:      op.Machine,
				ProcessingTime: op.Duration,
				OperationID:    op.ID,
				StartTime:      a.Start,
				EndTime:        a.End,
				Scheduled:      a.Scheduled,
			})
		}
	}

	for m := range res.Schedule.Machines {
		ms := &res.Schedule.Machines[m]
		md := machineDoc{
			MachineID:           ms.ID,
			AvailableTime:       ms.Available,
			ScheduledOperations: []scheduledDoc{},
		}
		for _, opID := range ms.Ops {
			op := res.Problem.Operation(opID)
			a, _ := res.Schedule.Assignment(opID)
			md.ScheduledOperations = append(md.ScheduledOperations, scheduledDoc{
				JobID:       op.Job,
				OperationID: op.ID,
				StartTime:   a.Start,
				EndTime:     a.End,
			})
		}
		doc.Machines = append(doc.Machines, md)
	}

	return doc
}

// ExportJSON writes the solution as indented JSON.
func ExportJSON(w io.Writer, res *jssp.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(buildDoc(res))
}

// ExportXML writes the solution as indented XML with a declaration header.
func ExportXML(w io.Writer, res *jssp.Result) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(buildDoc(res)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ExportText writes the human-readable report. Only scheduled operations
// appear in the per-job listing.
func ExportText(w io.Writer, res *jssp.Result) error {
	var b strings.Builder

	b.WriteString("JSSP SOLUTION EXPORT\n")
	b.WriteString("===================\n\n")

	b.WriteString("PROBLEM METADATA:\n")
	fmt.Fprintf(&b, "Jobs: %d\n", res.Problem.NumJobs)
	fmt.Fprintf(&b, "Machines: %d\n", res.Problem.NumMachines)
	fmt.Fprintf(&b, "Total Operations: %d\n\n", res.Problem.TotalOperations())

	b.WriteString("SCHEDULING RESULTS:\n")
	b.WriteString("===================\n\n")
	for _, job := range res.Problem.Jobs {
		fmt.Fprintf(&b, "Job %d:\n", job.ID)
		for _, opID := range job.Ops {
			op := res.Problem.Operation(opID)
			a, _ := res.Schedule.Assignment(opID)
			if !a.Scheduled {
				continue
			}
			fmt.Fprintf(&b, "  Operation %d: Machine %d [%d-%d]\n", op.ID, op.Machine, a.Start, a.End)
		}
		b.WriteString("\n")
	}

	b.WriteString("MACHINE SCHEDULES:\n")
	b.WriteString("==================\n\n")
	for m := range res.Schedule.Machines {
		ms := &res.Schedule.Machines[m]
		fmt.Fprintf(&b, "Machine %d:\n", ms.ID)
		for _, opID := range ms.Ops {
			op := res.Problem.Operation(opID)
			a, _ := res.Schedule.Assignment(opID)
			fmt.Fprintf(&b, "  Job %d Operation %d [%d-%d]\n", op.Job, op.ID, a.Start, a.End)
		}
		b.WriteString("\n")
	}

	b.WriteString("PERFORMANCE METRICS:\n")
	b.WriteString("====================\n")
	fmt.Fprintf(&b, "Makespan: %d\n", res.Metrics.Makespan)
	fmt.Fprintf(&b, "Total Completion Time: %d\n", res.Metrics.TotalCompletionTime)
	fmt.Fprintf(&b, "Average Flow Time: %g\n\n", res.Metrics.AvgFlowTime)

	_, err := io.WriteString(w, b.String())
	return err
}
