package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Bar is one category of a bar chart
type Bar struct {
	Label string
	Value float64
	// Color is a named color; empty uses the chart default
	Color string
	// Group names the legend entry the bar belongs to, if any
	Group string
	// Annotation replaces the formatted value above the bar
	Annotation string
}

// BarChart is a vertical bar chart with one bar per category
type BarChart struct {
	Title  string
	XLabel string
	YLabel string
	Bars   []Bar
	// ValueFormat formats the value labels, "%.2f" when empty
	ValueFormat string
	// Reference draws a dashed horizontal line at this value when set
	Reference      *float64
	ReferenceLabel string
}

// Plot builds the gonum plot of the chart
func (c BarChart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	if len(c.Bars) == 0 {
		p.HideAxes()
		return p, nil
	}

	format := c.ValueFormat
	if format == "" {
		format = "%.2f"
	}

	labels := make([]string, len(c.Bars))
	xys := make(plotter.XYs, len(c.Bars))
	annotations := make([]string, len(c.Bars))
	legend := make(map[string]bool)

	maxValue, minValue := 0.0, 0.0
	for _, b := range c.Bars {
		maxValue = math.Max(maxValue, b.Value)
		minValue = math.Min(minValue, b.Value)
	}
	if c.Reference != nil {
		maxValue = math.Max(maxValue, *c.Reference)
	}
	pad := (maxValue - minValue) * 0.03

	for i, b := range c.Bars {
		bars, err := plotter.NewBarChart(plotter.Values{b.Value}, vg.Points(28))
		if err != nil {
			return nil, fmt.Errorf("failed to build bar %q: %w", b.Label, err)
		}
		bars.XMin = float64(i)
		bars.Color = namedColor(b.Color, DefaultColor)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)

		if b.Group != "" && !legend[b.Group] {
			legend[b.Group] = true
			p.Legend.Add(b.Group, bars)
		}

		labels[i] = b.Label
		xys[i] = plotter.XY{X: float64(i), Y: b.Value + pad}
		annotations[i] = b.Annotation
		if annotations[i] == "" {
			annotations[i] = fmt.Sprintf(format, b.Value)
		}
	}

	valueLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: annotations})
	if err != nil {
		return nil, fmt.Errorf("failed to build value labels: %w", err)
	}
	for i := range valueLabels.TextStyle {
		valueLabels.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(valueLabels)

	if c.Reference != nil {
		line, err := plotter.NewLine(plotter.XYs{
			{X: -0.5, Y: *c.Reference},
			{X: float64(len(c.Bars)) - 0.5, Y: *c.Reference},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build reference line: %w", err)
		}
		line.Color = color.Black
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(line)
		if c.ReferenceLabel != "" {
			p.Legend.Add(c.ReferenceLabel, line)
		}
	}

	p.NominalX(labels...)
	if len(c.Bars) > 4 {
		p.X.Tick.Label.Rotation = math.Pi / 6
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	p.Y.Min = math.Min(0, minValue)
	p.Y.Max = maxValue + pad*5
	if p.Y.Max == p.Y.Min {
		p.Y.Max = p.Y.Min + 1
	}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p, nil
}
