// Package chart renders the optimization results as a side-by-side panel
// image: one prediction curve per control variable with its optimum marked.
package chart

import (
	"image/color"
	"os"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/JanviMadhukar/gas-lift-optimization/internal/sweep"
)

// Panel describes one subplot.
type Panel struct {
	Title     string
	XLabel    string
	YLabel    string
	LineColor color.Color // nil keeps the plotter default
	Result    *sweep.Result
}

var optimumColor = color.RGBA{R: 220, A: 255}

// Render writes a single PNG of the given panels laid out in one row.
func Render(path string, widthIn, heightIn float64, panels []Panel) error {
	if len(panels) == 0 {
		return eris.New("chart: no panels to render")
	}

	row := make([]*plot.Plot, len(panels))
	for i, p := range panels {
		pl, err := newPanel(p)
		if err != nil {
			return eris.Wrapf(err, "chart: panel %q", p.Title)
		}
		row[i] = pl
	}

	img := vgimg.New(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(panels),
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,
	}
	plots := [][]*plot.Plot{row}
	canvases := plot.Align(plots, tiles, dc)
	for i, pl := range row {
		pl.Draw(canvases[0][i])
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "chart: create %s", path)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close() //nolint:errcheck
		return eris.Wrapf(err, "chart: encode %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "chart: close %s", path)
	}
	return nil
}

func newPanel(p Panel) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = p.XLabel
	pl.Y.Label.Text = p.YLabel

	xys := make(plotter.XYs, len(p.Result.Grid))
	for i := range xys {
		xys[i].X = p.Result.Grid[i]
		xys[i].Y = p.Result.Predictions[i]
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, eris.Wrap(err, "prediction curve")
	}
	if p.LineColor != nil {
		line.Color = p.LineColor
	}
	pl.Add(line)
	pl.Legend.Add("Prediction Curve", line)

	best, err := plotter.NewScatter(plotter.XYs{{X: p.Result.Best.Control, Y: p.Result.Best.Production}})
	if err != nil {
		return nil, eris.Wrap(err, "optimum marker")
	}
	best.GlyphStyle.Color = optimumColor
	best.GlyphStyle.Radius = vg.Points(4)
	pl.Add(best)
	pl.Legend.Add("Optimal Point", best)
	pl.Legend.Top = true

	return pl, nil
}
