// Package charts turns aggregated views into renderer-agnostic chart
// specifications. It holds no state beyond its options.
package charts

import (
	"math"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/aggregate"
	"github.com/rocjay1/ledger-dashboard/internal/models"
)

// Kind is the chart or trace type a renderer should draw.
type Kind string

const (
	KindLine     Kind = "line"
	KindBar      Kind = "bar"
	KindSunburst Kind = "sunburst"
	KindTreemap  Kind = "treemap"
	KindHeatmap  Kind = "heatmap"
)

// Trace is one data series of a chart. Cartesian traces use X/Y, hierarchical
// traces use IDs/Labels/Parents/Values and heatmaps use X/Rows/Z.
// Nil entries in Y and Z are gaps.
type Trace struct {
	Name    string       `json:"name"`
	Kind    Kind         `json:"kind"`
	X       []string     `json:"x,omitempty"`
	Y       []*float64   `json:"y,omitempty"`
	IDs     []string     `json:"ids,omitempty"`
	Labels  []string     `json:"labels,omitempty"`
	Parents []string     `json:"parents,omitempty"`
	Values  []float64    `json:"values,omitempty"`
	Rows    []string     `json:"rows,omitempty"`
	Z       [][]*float64 `json:"z,omitempty"`
}

// Annotation marks a point on the x axis.
type Annotation struct {
	X    string `json:"x"`
	Text string `json:"text"`
}

// Chart is a complete chart specification.
type Chart struct {
	Kind        Kind         `json:"kind"`
	Title       string       `json:"title"`
	XTitle      string       `json:"x_title,omitempty"`
	YTitle      string       `json:"y_title,omitempty"`
	Traces      []Trace      `json:"traces"`
	Annotations []Annotation `json:"annotations,omitempty"`
	YRange      []float64    `json:"y_range,omitempty"`
}

// Options configures the presenter.
type Options struct {
	// Currency labels amount axes, e.g. "SEK".
	Currency string
	// ReferenceDate, when set, is annotated on the monthly trend chart.
	ReferenceDate  time.Time
	ReferenceLabel string
	// DistributionKind is KindSunburst, KindTreemap or KindBar.
	DistributionKind Kind
}

// Presenter builds chart specifications from aggregated views.
type Presenter interface {
	MonthlyTrend(m models.MonthlyAggregate) Chart
	Distribution(c models.CategoryAggregate) Chart
	Ratio(r []models.RatioPoint) Chart
	Decomposition(observed models.Series, f models.ForecastResult, projection models.Series) Chart
	CategoryTrend(category string, t []models.CategoryMonthTotal) Chart
	Heatmap(cells []models.HeatCell, period aggregate.HeatmapPeriod) Chart
}

// SpecPresenter is the default Presenter.
type SpecPresenter struct {
	opts Options
}

var _ Presenter = (*SpecPresenter)(nil)

// NewSpecPresenter returns a presenter with defaults filled in.
func NewSpecPresenter(opts Options) *SpecPresenter {
	if opts.Currency == "" {
		opts.Currency = "SEK"
	}
	if opts.DistributionKind == "" {
		opts.DistributionKind = KindSunburst
	}
	if opts.ReferenceLabel == "" {
		opts.ReferenceLabel = "Reference"
	}
	return &SpecPresenter{opts: opts}
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func seriesTrace(name string, kind Kind, s models.Series, layout string) Trace {
	tr := Trace{Name: name, Kind: kind, X: make([]string, len(s)), Y: make([]*float64, len(s))}
	for i, p := range s {
		tr.X[i] = p.Date.Format(layout)
		tr.Y[i] = nullable(p.Value)
	}
	return tr
}
