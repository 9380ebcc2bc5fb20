package models

import (
	"encoding/json"
	"time"
)

// Point is one observation of a dated numeric series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// MarshalJSON encodes NaN values as null.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  time.Time `json:"date"`
		Value *float64  `json:"value"`
	}{Date: p.Date, Value: nullable(p.Value)})
}

// Series is an ordered sequence of points.
type Series []Point

// Values returns the series values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// ForecastResult holds the components of a decomposed series, aligned to the
// input dates.
type ForecastResult struct {
	Trend    Series `json:"trend"`
	Seasonal Series `json:"seasonal"`
	Residual Series `json:"residual"`
}
