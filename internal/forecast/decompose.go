// Package forecast splits expense series into trend, seasonal and residual
// components and projects them forward.
package forecast

import (
	"fmt"
	"math"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Model selects how the components combine.
type Model string

const (
	Additive       Model = "additive"
	Multiplicative Model = "multiplicative"
)

// Decomposer splits a series into trend, seasonal and residual components.
// period is the number of observations per seasonal cycle.
type Decomposer interface {
	Decompose(series models.Series, period int) (models.ForecastResult, error)
}

// Classical is a moving-average decomposition. The trend is a centred moving
// average over one cycle, so the first and last period/2 trend and residual
// values are NaN.
type Classical struct {
	Model Model
}

// Decompose runs an additive classical decomposition.
func Decompose(series models.Series, period int) (models.ForecastResult, error) {
	return Classical{Model: Additive}.Decompose(series, period)
}

// Decompose implements Decomposer.
func (c Classical) Decompose(series models.Series, period int) (models.ForecastResult, error) {
	if period < 2 {
		return models.ForecastResult{}, fmt.Errorf("invalid period %d: must be at least 2", period)
	}
	if len(series) < 2*period {
		return models.ForecastResult{}, &models.InsufficientDataError{Points: len(series), Period: period}
	}

	x := series.Values()
	multiplicative := c.Model == Multiplicative
	if multiplicative {
		for _, v := range x {
			if v <= 0 {
				return models.ForecastResult{}, fmt.Errorf("multiplicative decomposition requires positive values")
			}
		}
	}

	trend := movingAverage(x, period)

	detrended := make([]float64, len(x))
	for i := range x {
		if multiplicative {
			detrended[i] = x[i] / trend[i]
		} else {
			detrended[i] = x[i] - trend[i]
		}
	}

	phase := make([]float64, period)
	for p := range phase {
		var vals []float64
		for i := p; i < len(detrended); i += period {
			if !math.IsNaN(detrended[i]) {
				vals = append(vals, detrended[i])
			}
		}
		phase[p] = stat.Mean(vals, nil)
	}
	centre := stat.Mean(phase, nil)
	for p := range phase {
		if multiplicative {
			phase[p] /= centre
		} else {
			phase[p] -= centre
		}
	}

	result := models.ForecastResult{
		Trend:    make(models.Series, len(x)),
		Seasonal: make(models.Series, len(x)),
		Residual: make(models.Series, len(x)),
	}
	for i, pt := range series {
		s := phase[i%period]
		var r float64
		if multiplicative {
			r = x[i] / (trend[i] * s)
		} else {
			r = x[i] - trend[i] - s
		}
		result.Trend[i] = models.Point{Date: pt.Date, Value: trend[i]}
		result.Seasonal[i] = models.Point{Date: pt.Date, Value: s}
		result.Residual[i] = models.Point{Date: pt.Date, Value: r}
	}
	return result, nil
}

// movingAverage returns the centred moving average of x over period points.
// Even periods use a 2xperiod average with half weights at both ends.
func movingAverage(x []float64, period int) []float64 {
	var weights []float64
	if period%2 == 0 {
		weights = make([]float64, period+1)
		for i := range weights {
			weights[i] = 1
		}
		weights[0], weights[period] = 0.5, 0.5
	} else {
		weights = make([]float64, period)
		for i := range weights {
			weights[i] = 1
		}
	}
	floats.Scale(1/float64(period), weights)

	half := len(weights) / 2
	out := make([]float64, len(x))
	for i := range x {
		if i < half || i+half >= len(x) {
			out[i] = math.NaN()
			continue
		}
		out[i] = floats.Dot(weights, x[i-half:i+half+1])
	}
	return out
}
