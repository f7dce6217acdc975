package main

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

// writeLossCurve renders the per-epoch primal objective as a line plot.
func writeLossCurve(path string, history []float64) error {
	if len(history) == 0 {
		return errors.NewValueError("writeLossCurve", "no loss history recorded")
	}

	p := plot.New()
	p.Title.Text = "Training loss"
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "Objective"

	pts := make(plotter.XYs, len(history))
	for i, v := range history {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "building loss curve")
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving loss curve to %s", path)
	}
	return nil
}
