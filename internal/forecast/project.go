package forecast

import (
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"gonum.org/v1/gonum/stat"
)

// Step advances a date by one observation interval.
type Step func(time.Time) time.Time

var (
	Daily   Step = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	Monthly Step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
)

// Project fits a least-squares line through the series and extends it by
// periods observations after the last date.
func Project(series models.Series, periods int, step Step) (models.Series, error) {
	if len(series) < 2 {
		return nil, &models.InsufficientDataError{Points: len(series), Period: 1}
	}
	if periods <= 0 {
		return models.Series{}, nil
	}

	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, series.Values(), nil, false)

	out := make(models.Series, periods)
	d := series[len(series)-1].Date
	for i := range out {
		d = step(d)
		x := float64(len(series) + i)
		out[i] = models.Point{Date: d, Value: alpha + beta*x}
	}
	return out, nil
}
