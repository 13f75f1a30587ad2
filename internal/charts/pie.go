package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"zomatour/pkg/contracts/domain"
)

// Slice is one wedge of a pie chart
type Slice struct {
	Label string
	Value float64
}

// PieChart shows slices as labelled wedges with their percentages
type PieChart struct {
	Title  string
	Slices []Slice
}

// SharesToSlices converts counted shares to pie slices
func SharesToSlices(shares []domain.Share) []Slice {
	out := make([]Slice, len(shares))
	for i, s := range shares {
		out[i] = Slice{Label: s.Label, Value: float64(s.Count)}
	}
	return out
}

// Plot builds the gonum plot of the chart
func (c PieChart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.HideAxes()
	p.X.Min, p.X.Max = -1, 1
	p.Y.Min, p.Y.Max = -1, 1

	var total float64
	for _, s := range c.Slices {
		if s.Value < 0 || math.IsNaN(s.Value) {
			return nil, fmt.Errorf("slice %q has invalid value %v", s.Label, s.Value)
		}
		total += s.Value
	}
	if total == 0 {
		return p, nil
	}

	p.Add(&wedges{slices: c.Slices, total: total})
	return p, nil
}

// wedges draws a pie inside the data area of a plot
type wedges struct {
	slices []Slice
	total  float64
}

// Plot implements plot.Plotter
func (w *wedges) Plot(c draw.Canvas, plt *plot.Plot) {
	center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	size := c.Size()
	radius := size.X
	if size.Y < radius {
		radius = size.Y
	}
	radius = radius / 2 * 0.9

	style := plt.Legend.TextStyle
	style.XAlign = draw.XCenter
	style.YAlign = draw.YCenter

	start := math.Pi / 2
	for i, s := range w.slices {
		if s.Value == 0 {
			continue
		}
		sweep := 2 * math.Pi * s.Value / w.total

		var path vg.Path
		path.Move(center)
		path.Arc(center, radius, start, sweep)
		path.Close()
		c.SetColor(Palette(i))
		c.Fill(path)
		c.SetColor(color.White)
		c.SetLineWidth(vg.Points(1))
		c.Stroke(path)

		mid := start + sweep/2
		at := vg.Point{
			X: center.X + radius*0.6*vg.Length(math.Cos(mid)),
			Y: center.Y + radius*0.6*vg.Length(math.Sin(mid)),
		}
		pct := s.Value * 100 / w.total
		c.FillText(style, at, fmt.Sprintf("%s\n%.1f%%", s.Label, pct))

		start += sweep
	}
}
