package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"chatbi/domain/core"
)

// DefaultZScoreThreshold flags values more than two population standard
// deviations from the mean.
const DefaultZScoreThreshold = 2.0

// zScoreTolerance widens the flagging boundary slightly. With population σ a
// lone outlier among n values tops out at |Z| = √(n−1), so a clear outlier
// in a short series lands a hair under a round threshold like 2.0.
const zScoreTolerance = 0.005

// AnomalyRecord describes one flagged value
type AnomalyRecord struct {
	Index     int     `json:"index"`
	Value     float64 `json:"value"`
	ZScore    float64 `json:"z_score"`
	Deviation float64 `json:"deviation"`
}

// AnomalyReport is the full output of one detection pass
type AnomalyReport struct {
	Anomalies []AnomalyRecord `json:"anomalies"`
	Rate      float64         `json:"anomaly_rate"`
	Mean      float64         `json:"mean"`
	StdDev    float64         `json:"stddev"`
}

// DetectAnomalies computes the population mean and standard deviation over
// the full sequence and flags every index whose |Z-score| meets the
// threshold, in original index order. A constant series has sigma 0 and
// yields zero anomalies rather than a division by zero.
func DetectAnomalies(values []float64, threshold float64) (*AnomalyReport, error) {
	if threshold <= 0 {
		return nil, core.NewInvalidThresholdError(threshold)
	}
	if len(values) < 2 {
		return nil, core.NewInsufficientDataError(2, len(values))
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return nil, err
	}
	sigma, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return nil, err
	}

	report := &AnomalyReport{
		Anomalies: []AnomalyRecord{},
		Mean:      mean,
		StdDev:    sigma,
	}
	if sigma == 0 {
		return report, nil
	}

	for i, v := range values {
		z := (v - mean) / sigma
		if math.Abs(z) >= threshold-zScoreTolerance {
			report.Anomalies = append(report.Anomalies, AnomalyRecord{
				Index:     i,
				Value:     v,
				ZScore:    z,
				Deviation: v - mean,
			})
		}
	}
	report.Rate = float64(len(report.Anomalies)) / float64(len(values))
	return report, nil
}
