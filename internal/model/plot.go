package model

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// writeAccuracyChart renders a per-family held-out accuracy bar chart.
// Reporting only; training does not depend on it.
func writeAccuracyChart(reports []Report, path string) error {
	if len(reports) == 0 {
		return errors.New("no reports to plot")
	}

	p := plot.New()
	p.Title.Text = "Held-out accuracy by classifier family"
	p.Y.Label.Text = "accuracy"
	p.Y.Min = 0
	p.Y.Max = 1

	values := make(plotter.Values, len(reports))
	names := make([]string, len(reports))
	for i, r := range reports {
		values[i] = r.Accuracy
		names[i] = r.Family
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return errors.Wrap(err, "bar chart")
	}
	p.Add(bars)
	p.NominalX(names...)

	return errors.Wrapf(p.Save(5*vg.Inch, 4*vg.Inch, path), "save chart %s", path)
}
