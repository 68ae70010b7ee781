// Package render draws the stacked sensor dashboard.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/config"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/dataset"
)

// ErrMissingColumn is returned when a panel has nothing to plot.
var ErrMissingColumn = errors.New("no series for panel")

var thresholdColor = color.RGBA{R: 255, A: 255}

// Dashboard is a fixed stack of panels rendered into one PNG.
type Dashboard struct {
	Panels []config.Panel
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// NewDashboard returns the default 15x20 inch layout.
func NewDashboard(panels []config.Panel) *Dashboard {
	return &Dashboard{
		Panels: panels,
		Width:  vg.Length(config.DefaultWidth) * vg.Inch,
		Height: vg.Length(config.DefaultHeight) * vg.Inch,
		DPI:    config.DefaultDPI,
	}
}

// Render draws every panel top to bottom and encodes the image as PNG.
func (d *Dashboard) Render(w io.Writer, t *dataset.Table) error {
	plots, err := d.Plots(t)
	if err != nil {
		return err
	}

	img := vgimg.NewWith(vgimg.UseWH(d.Width, d.Height), vgimg.UseDPI(d.DPI))
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Points(12),
		PadBottom: vg.Points(12),
		PadLeft:   vg.Points(12),
		PadRight:  vg.Points(12),
		PadY:      vg.Points(24),
	}

	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(grid, tiles, dc)
	for i := range grid {
		grid[i][0].Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Plots builds one plot per panel without drawing them.
func (d *Dashboard) Plots(t *dataset.Table) ([]*plot.Plot, error) {
	xs := axisTimes(t.Time())
	loc := time.Local
	if t.Len() > 0 {
		loc = t.Time()[0].Location()
	}

	plots := make([]*plot.Plot, 0, len(d.Panels))
	for i, panel := range d.Panels {
		p, err := buildPanel(panel, t, xs, loc)
		if err != nil {
			return nil, err
		}
		if i == len(d.Panels)-1 {
			p.X.Label.Text = dataset.TimeColumn
		}
		plots = append(plots, p)
	}
	return plots, nil
}

func buildPanel(panel config.Panel, t *dataset.Table, xs []float64, loc *time.Location) (*plot.Plot, error) {
	cols := t.ColumnsFor(panel.Sensor)
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, panel.Sensor)
	}

	p := plot.New()
	p.Title.Text = panel.Title
	p.Y.Label.Text = panel.YLabel
	p.X.Tick.Marker = plot.TimeTicks{
		Format: "15:04:05",
		Time: func(v float64) time.Time {
			sec, frac := math.Modf(v)
			return time.Unix(int64(sec), int64(frac*1e9)).In(loc)
		},
	}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, c := range cols {
		xy := make(plotter.XYs, len(c.Values))
		for j, v := range c.Values {
			xy[j].X = xs[j]
			xy[j].Y = v
		}
		line, err := plotter.NewLine(xy)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(c.Name, line)
	}

	threshold := plotter.NewFunction(func(float64) float64 { return panel.Threshold })
	threshold.Color = thresholdColor
	threshold.Width = vg.Points(1.5)
	threshold.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(threshold)
	p.Legend.Add(panel.ThresholdLabel, threshold)

	// Functions carry no data range; keep the reference line in view.
	p.Y.Min = math.Min(p.Y.Min, panel.Threshold)
	p.Y.Max = math.Max(p.Y.Max, panel.Threshold)

	return p, nil
}

// axisTimes converts timestamps to fractional unix seconds.
func axisTimes(index []time.Time) []float64 {
	xs := make([]float64, len(index))
	for i, ts := range index {
		xs[i] = float64(ts.UnixNano()) / float64(time.Second)
	}
	return xs
}
