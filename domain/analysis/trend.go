// Package analysis implements the local statistical analysis suite: trend
// estimation, Z-score anomaly detection, multi-dimensional grouping and
// result comparison over in-memory tabular query results. Every function is
// a pure, synchronous computation with no shared state, safe to call
// concurrently for independent requests.
package analysis

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"chatbi/domain/core"
)

// TrendDirection classifies the slope of a series
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
)

const (
	// slopeEpsilon is the dead zone around zero below which a least-squares
	// slope is reported as stable.
	slopeEpsilon = 1e-9

	// forecastWindow is the number of trailing observations averaged for the
	// moving-average projection, clamped to the series length.
	forecastWindow = 3
)

// TrendReport describes the direction, linear-fit strength and optional
// forecast of a value sequence.
type TrendReport struct {
	Direction   TrendDirection `json:"direction"`
	Slope       float64        `json:"slope"`
	Strength    float64        `json:"strength"`
	Predictions []float64      `json:"predictions"`
}

// EstimateTrend fits value against index with ordinary least squares and
// projects predictSteps future values as the moving average of the last
// forecastWindow observations. Requires at least 2 points; strength is 0 for
// a series with fewer than 2 distinct values.
func EstimateTrend(values []float64, predictSteps int) (*TrendReport, error) {
	if len(values) < 2 {
		return nil, core.NewInsufficientDataError(2, len(values))
	}
	if predictSteps < 0 {
		predictSteps = 0
	}

	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, slope := stat.LinearRegression(xs, values, nil, false)

	report := &TrendReport{
		Slope:       slope,
		Direction:   classifySlope(slope),
		Predictions: []float64{},
	}

	// R² is undefined for a flat series (zero total sum of squares);
	// report 0 instead of dividing by zero.
	if distinctCount(values) >= 2 {
		report.Strength = clamp01(stat.RSquared(xs, values, nil, alpha, slope))
	}

	if predictSteps > 0 {
		window := forecastWindow
		if window > len(values) {
			window = len(values)
		}
		ma, err := stats.Mean(values[len(values)-window:])
		if err != nil {
			return nil, err
		}
		report.Predictions = make([]float64, predictSteps)
		for i := range report.Predictions {
			report.Predictions[i] = ma
		}
	}

	return report, nil
}

// TimeSeriesReport combines trend estimation with anomaly detection at the
// default threshold, the shape returned by the time-series endpoint.
type TimeSeriesReport struct {
	Direction   TrendDirection  `json:"direction"`
	Strength    float64         `json:"strength"`
	Anomalies   []AnomalyRecord `json:"anomalies"`
	Predictions []float64       `json:"predictions"`
}

// AnalyzeTimeSeries runs trend estimation and default-threshold anomaly
// detection over one value sequence.
func AnalyzeTimeSeries(values []float64, predictSteps int) (*TimeSeriesReport, error) {
	trend, err := EstimateTrend(values, predictSteps)
	if err != nil {
		return nil, err
	}
	anomalies, err := DetectAnomalies(values, DefaultZScoreThreshold)
	if err != nil {
		return nil, err
	}
	return &TimeSeriesReport{
		Direction:   trend.Direction,
		Strength:    trend.Strength,
		Anomalies:   anomalies.Anomalies,
		Predictions: trend.Predictions,
	}, nil
}

func classifySlope(slope float64) TrendDirection {
	switch {
	case slope > slopeEpsilon:
		return TrendRising
	case slope < -slopeEpsilon:
		return TrendFalling
	default:
		return TrendStable
	}
}

func distinctCount(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
		if len(seen) >= 2 {
			break
		}
	}
	return len(seen)
}

func clamp01(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
