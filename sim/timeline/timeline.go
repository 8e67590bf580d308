// Package timeline renders lock-hold intervals of a simulation as a PNG,
// one row per table.
package timeline

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/inference-sim/table-sim/sim/trace"
)

var (
	readColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	writeColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	waitColor  = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// rowOffsets keep reads, waits and writes of the same table visually apart.
const (
	readOffset  = 0.15
	waitOffset  = -0.3
	writeOffset = -0.15
)

// Build creates the plot without saving it. tables lists table names in row
// order; intervals on tables not listed are skipped.
func Build(records []trace.Record, tables []string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Table lock holds"
	p.X.Label.Text = "elapsed (s)"
	p.Y.Label.Text = "table"

	rows := make(map[string]float64, len(tables))
	ticks := make([]plot.Tick, 0, len(tables))
	for i, name := range tables {
		rows[name] = float64(i + 1)
		ticks = append(ticks, plot.Tick{Value: float64(i + 1), Label: name})
	}
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Min = 0
	p.Y.Max = float64(len(tables) + 1)
	p.X.Min = 0
	p.X.Max = 1

	intervals := trace.Intervals(records)
	sort.SliceStable(intervals, func(i, j int) bool { return intervals[i].Start < intervals[j].Start })

	legend := make(map[string]bool)
	for _, iv := range intervals {
		row, ok := rows[iv.Table]
		if !ok {
			continue
		}
		label, offset, c := "read", readOffset, readColor
		switch {
		case iv.Wait:
			label, offset, c = "write wait", waitOffset, waitColor
		case iv.Write:
			label, offset, c = "write", writeOffset, writeColor
		}
		if end := iv.End.Seconds(); end > p.X.Max {
			p.X.Max = end
		}
		y := row + offset
		line, err := plotter.NewLine(plotter.XYs{
			{X: iv.Start.Seconds(), Y: y},
			{X: iv.End.Seconds(), Y: y},
		})
		if err != nil {
			return nil, fmt.Errorf("plotting interval for thread %d on %s: %w", iv.Thread, iv.Table, err)
		}
		line.LineStyle.Width = vg.Points(6)
		line.LineStyle.Color = c
		p.Add(line)
		if !legend[label] {
			p.Legend.Add(label, line)
			legend[label] = true
		}
	}
	return p, nil
}

// Render builds the plot and saves it to path; the format follows the
// file extension (.png, .svg, .pdf).
func Render(records []trace.Record, tables []string, path string) error {
	p, err := Build(records, tables)
	if err != nil {
		return err
	}
	height := vg.Length(1+len(tables)) * vg.Inch
	if height < 3*vg.Inch {
		height = 3 * vg.Inch
	}
	if err := p.Save(10*vg.Inch, height, path); err != nil {
		return fmt.Errorf("saving timeline to %s: %w", path, err)
	}
	return nil
}
