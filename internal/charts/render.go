package charts

import (
	"fmt"
	"io"

	"gonum.org/v1/plot/vg"
)

// Default image size
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// Renderer draws charts as PNG images
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a renderer; zero sizes use the defaults
func NewRenderer(width, height vg.Length) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{width: width, height: height}
}

// RenderPNG writes the chart to w and returns the number of bytes written
func (r *Renderer) RenderPNG(w io.Writer, c Chart) (int64, error) {
	p, err := c.Plot()
	if err != nil {
		return 0, fmt.Errorf("failed to plot chart: %w", err)
	}

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return 0, fmt.Errorf("failed to create png canvas: %w", err)
	}

	n, err := wt.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write png: %w", err)
	}
	return n, nil
}
