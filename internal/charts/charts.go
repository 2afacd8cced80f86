// Package charts renders the analytics charts as PNG images with gonum/plot.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"expensemate/internal/core"
)

var ErrUnknownChart = errors.New("unknown chart")

type Kind string

const (
	Monthly    Kind = "monthly"
	Category   Kind = "category"
	Department Kind = "department"
)

var Kinds = []Kind{Monthly, Category, Department}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, s)
}

// Data is everything the charts draw from.
type Data struct {
	Year        int
	Monthly     []core.MonthPoint
	Categories  []core.CategoryShare
	Departments []core.CategoryAmount
}

const (
	width  = 8 * vg.Inch
	height = 4 * vg.Inch
)

var (
	barColor    = color.RGBA{R: 59, G: 130, B: 246, A: 255}
	budgetColor = color.RGBA{R: 239, G: 68, B: 68, A: 255}
)

// Render writes the chart as PNG.
func Render(w io.Writer, kind Kind, data Data) error {
	var (
		p   *plot.Plot
		err error
	)
	switch kind {
	case Monthly:
		p, err = monthlyPlot(data)
	case Category:
		p, err = categoryPlot(data.Categories)
	case Department:
		p, err = departmentPlot(data.Departments)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	if err != nil {
		return fmt.Errorf("build %s chart: %w", kind, err)
	}

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("encode %s chart: %w", kind, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s chart: %w", kind, err)
	}
	return nil
}

func monthlyPlot(data Data) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Monthly expenses vs budget, %d", data.Year)
	p.Y.Label.Text = "USD"

	if len(data.Monthly) == 0 {
		p.Title.Text += " (no data)"
		return p, nil
	}

	values := make(plotter.Values, len(data.Monthly))
	budget := make(plotter.XYs, len(data.Monthly))
	labels := make([]string, len(data.Monthly))
	for i, m := range data.Monthly {
		values[i] = m.Expenses.Dollars()
		budget[i].X = float64(i)
		budget[i].Y = m.Budget.Dollars()
		labels[i] = m.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	line, err := plotter.NewLine(budget)
	if err != nil {
		return nil, err
	}
	line.Color = budgetColor
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(bars, line)
	p.Legend.Add("Expenses", bars)
	p.Legend.Add("Budget", line)
	p.Legend.Top = true
	p.NominalX(labels...)
	return p, nil
}

func categoryPlot(shares []core.CategoryShare) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Expenses by category"
	p.Y.Label.Text = "% of total"

	values := make(plotter.Values, len(shares))
	labels := make([]string, len(shares))
	for i, s := range shares {
		values[i] = s.Percent
		labels[i] = s.Name
	}
	return barPlot(p, values, labels)
}

func departmentPlot(totals []core.CategoryAmount) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Expenses by department"
	p.Y.Label.Text = "USD"

	values := make(plotter.Values, len(totals))
	labels := make([]string, len(totals))
	for i, d := range totals {
		values[i] = d.Amount.Dollars()
		labels[i] = d.Name
	}
	return barPlot(p, values, labels)
}

func barPlot(p *plot.Plot, values plotter.Values, labels []string) (*plot.Plot, error) {
	if len(values) == 0 {
		p.Title.Text += " (no data)"
		return p, nil
	}
	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}
