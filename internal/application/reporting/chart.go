package reporting

import (
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/turtacn/EnviroLens/pkg/errors"
)

// ProductionField is the aggregate plotted by WriteProductionChart.
const ProductionField = "yearly_production_by_type"

// Chart canvas size.
var (
	ChartWidth  = 12 * vg.Inch
	ChartHeight = 6 * vg.Inch
)

// LineSeries is one named line of a chart.
type LineSeries struct {
	Name   string
	Points plotter.XYs
}

// SeriesFromField reads a {series: {x: y}} aggregate such as
// yearly_production_by_type.  Non-numeric x keys are skipped and points are
// sorted by x.
func SeriesFromField(sec Section, key string) ([]LineSeries, error) {
	m, ok := sec.Fields[key].(map[string]interface{})
	if !ok || len(m) == 0 {
		return nil, errors.Newf(errors.CodeExportFailed, "%s has no %s to plot", sec.Name, key)
	}

	names := sortedKeys(m)
	out := make([]LineSeries, 0, len(names))
	for _, name := range names {
		inner, ok := m[name].(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.CodeExportFailed, "%s.%s is not a series map", key, name)
		}
		pts := make(plotter.XYs, 0, len(inner))
		for xs, yv := range inner {
			x, err := strconv.ParseFloat(xs, 64)
			if err != nil {
				continue
			}
			y, ok := yv.(float64)
			if !ok {
				continue
			}
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
		if len(pts) == 0 {
			continue
		}
		sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
		out = append(out, LineSeries{Name: name, Points: pts})
	}
	if len(out) == 0 {
		return nil, errors.Newf(errors.CodeExportFailed, "%s.%s has no numeric points", sec.Name, key)
	}
	return out, nil
}

// WriteLineChart renders series as a PNG line chart into w.
func WriteLineChart(w io.Writer, title, xLabel, yLabel string, series []LineSeries) error {
	if len(series) == 0 {
		return errors.New(errors.CodeExportFailed, "nothing to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = integerTicks{}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range series {
		line, err := plotter.NewLine(s.Points)
		if err != nil {
			return errors.Wrap(err, errors.CodeExportFailed, "invalid series").WithDetail(s.Name)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	wt, err := p.WriterTo(ChartWidth, ChartHeight, "png")
	if err != nil {
		return errors.Wrap(err, errors.CodeExportFailed, "failed to render chart")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.CodeExportFailed, "failed to write chart")
	}
	return nil
}

// WriteProductionChart plots yearly production by type for the named
// dataset section.
func WriteProductionChart(w io.Writer, rep *Report, name string) error {
	sec, ok := rep.Section(name)
	if !ok {
		return errors.Newf(errors.CodeDatasetNotFound, "unknown dataset %q", name)
	}
	series, err := SeriesFromField(sec, ProductionField)
	if err != nil {
		return err
	}
	return WriteLineChart(w, sec.Title()+": yearly production by type", "Year", "Production", series)
}

// integerTicks labels only whole-number positions, so year axes read 2015,
// 2016 rather than 2015.5.
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for _, t := range (plot.DefaultTicks{}).Ticks(min, max) {
		if t.Label != "" && t.Value != float64(int64(t.Value)) {
			t.Label = ""
		}
		ticks = append(ticks, t)
	}
	return ticks
}

//Personal.AI order the ending
