// Package gantt renders schedules as machine-per-row gantt charts, either
// as plain text for terminals or as a PNG image.
package gantt

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/jobshop-dev/jobshop/pkg/jssp"
)

// Chart geometry, one row per machine on a linear time axis.
const (
	marginLeft   = 100.0
	marginTop    = 50.0
	marginRight  = 50.0
	marginBottom = 50.0
	rowHeight    = 60.0
	timeScale    = 20.0
	gridStep     = 5
)

// jobPalette assigns each job a stable color; jobs beyond the palette wrap
// around.
var jobPalette = []color.RGBA{
	{R: 255, G: 99, B: 71, A: 255},   // tomato
	{R: 70, G: 130, B: 180, A: 255},  // steel blue
	{R: 60, G: 179, B: 113, A: 255},  // medium sea green
	{R: 255, G: 215, B: 0, A: 255},   // gold
	{R: 147, G: 112, B: 219, A: 255}, // medium purple
	{R: 255, G: 105, B: 180, A: 255}, // hot pink
	{R: 255, G: 140, B: 0, A: 255},   // dark orange
	{R: 64, G: 224, B: 208, A: 255},  // turquoise
	{R: 220, G: 20, B: 60, A: 255},   // crimson
	{R: 0, G: 206, B: 209, A: 255},   // dark turquoise
}

// JobColor returns the palette color for a job id.
func JobColor(jobID int) color.RGBA {
	if jobID < 0 {
		jobID = -jobID
	}
	return jobPalette[jobID%len(jobPalette)]
}

// jobSymbol is the one-character job marker used in the text chart: digits
// for the first ten jobs, letters after that.
func jobSymbol(jobID int) byte {
	const symbols = "0123456789abcdefghijklmnopqrstuvwxyz"
	if jobID < 0 || jobID >= len(symbols) {
		return '#'
	}
	return symbols[jobID]
}

// RenderText writes a character-cell gantt chart, one row per machine and
// one column per time unit, blocks marked with the owning job's symbol.
func RenderText(w io.Writer, res *jssp.Result) {
	makespan := res.Metrics.Makespan
	if makespan == 0 || len(res.Schedule.Machines) == 0 {
		fmt.Fprintln(w, "(empty schedule)")
		return
	}

	// Time ruler, a tick label every gridStep units.
	fmt.Fprintf(w, "%12s", "")
	for t := 0; t <= makespan; t += gridStep {
		fmt.Fprintf(w, "%-*d", gridStep, t)
	}
	fmt.Fprintln(w)

	for m := range res.Schedule.Machines {
		ms := &res.Schedule.Machines[m]
		row := make([]byte, makespan)
		for i := range row {
			row[i] = '.'
		}
		for _, opID := range ms.Ops {
			op := res.Problem.Operation(opID)
			a, _ := res.Schedule.Assignment(opID)
			for t := a.Start; t < a.End && t < makespan; t++ {
				row[t] = jobSymbol(op.Job)
			}
		}
		fmt.Fprintf(w, "Machine %2d |%s|\n", ms.ID, row)
	}

	fmt.Fprintf(w, "\nMakespan: %d  Total Completion Time: %d  Average Flow Time: %.2f\n",
		res.Metrics.Makespan, res.Metrics.TotalCompletionTime, res.Metrics.AvgFlowTime)
}

// RenderPNG draws the chart to a PNG file: labeled machine rows, a light
// grid every five time units, and one colored block per operation.
func RenderPNG(res *jssp.Result, path string) error {
	if res == nil {
		return fmt.Errorf("cannot render nil result")
	}
	makespan := res.Metrics.Makespan
	if makespan <= 0 {
		makespan = 1
	}
	numMachines := len(res.Schedule.Machines)
	if numMachines == 0 {
		numMachines = 1
	}

	width := int(marginLeft + float64(makespan)*timeScale + marginRight)
	height := int(marginTop + float64(numMachines)*rowHeight + marginBottom)
	dc := gg.NewContext(width, height)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.DrawString("JSSP Gantt Chart", marginLeft, marginTop-20)

	// Grid.
	dc.SetRGB255(200, 200, 200)
	dc.SetLineWidth(1)
	chartRight := marginLeft + float64(makespan)*timeScale
	chartBottom := marginTop + float64(numMachines)*rowHeight
	for i := 0; i <= numMachines; i++ {
		y := marginTop + float64(i)*rowHeight
		dc.DrawLine(marginLeft, y, chartRight, y)
	}
	for t := 0; t <= makespan; t += gridStep {
		x := marginLeft + float64(t)*timeScale
		dc.DrawLine(x, marginTop, x, chartBottom)
	}
	dc.Stroke()

	// Machine labels and time ticks.
	dc.SetRGB(0, 0, 0)
	for m := 0; m < len(res.Schedule.Machines); m++ {
		y := marginTop + float64(m)*rowHeight + rowHeight/2
		dc.DrawStringAnchored(fmt.Sprintf("Machine %d", m), marginLeft-10, y, 1, 0.5)
	}
	for t := 0; t <= makespan; t += gridStep {
		x := marginLeft + float64(t)*timeScale
		dc.DrawStringAnchored(fmt.Sprintf("%d", t), x, chartBottom+15, 0.5, 0.5)
	}

	// Operation blocks.
	for m := range res.Schedule.Machines {
		ms := &res.Schedule.Machines[m]
		y := marginTop + float64(m)*rowHeight + 10
		for _, opID := range ms.Ops {
			op := res.Problem.Operation(opID)
			a, _ := res.Schedule.Assignment(opID)
			x := marginLeft + float64(a.Start)*timeScale
			w := float64(op.Duration) * timeScale

			dc.SetColor(JobColor(op.Job))
			dc.DrawRectangle(x, y, w, rowHeight-20)
			dc.Fill()

			dc.SetRGB(0, 0, 0)
			dc.DrawRectangle(x, y, w, rowHeight-20)
			dc.Stroke()
			dc.DrawStringAnchored(fmt.Sprintf("J%d", op.Job), x+w/2, y+(rowHeight-20)/2, 0.5, 0.5)
		}
	}

	dc.SetRGB(0, 0, 0)
	footer := fmt.Sprintf("Makespan: %d   Total Completion Time: %d   Average Flow Time: %.2f",
		res.Metrics.Makespan, res.Metrics.TotalCompletionTime, res.Metrics.AvgFlowTime)
	dc.DrawString(footer, marginLeft, float64(height)-15)

	return dc.SavePNG(path)
}
