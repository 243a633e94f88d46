package analysis

import (
	"errors"
	"math"
	"testing"

	"chatbi/domain/core"
)

func TestDetectAnomalies_FlagsOutlier(t *testing.T) {
	// Documented example: the 50 sits far from the cluster around 11-13
	report, err := DetectAnomalies([]float64{10, 12, 11, 13, 50}, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(report.Mean-19.2) > 1e-9 {
		t.Errorf("mean = %f, want 19.2", report.Mean)
	}
	if len(report.Anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d: %+v", len(report.Anomalies), report.Anomalies)
	}

	a := report.Anomalies[0]
	if a.Index != 4 || a.Value != 50 {
		t.Errorf("flagged %+v, want index 4 value 50", a)
	}
	if math.Abs(a.Deviation-30.8) > 1e-9 {
		t.Errorf("deviation = %f, want 30.8", a.Deviation)
	}
	if math.Abs(report.Rate-0.2) > 1e-9 {
		t.Errorf("rate = %f, want 0.2", report.Rate)
	}
}

func TestDetectAnomalies_ConstantSeriesHasNone(t *testing.T) {
	report, err := DetectAnomalies([]float64{7, 7, 7, 7, 7}, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Anomalies) != 0 {
		t.Errorf("expected no anomalies for constant series, got %d", len(report.Anomalies))
	}
	if report.StdDev != 0 || report.Rate != 0 {
		t.Errorf("stddev = %f, rate = %f; want 0, 0", report.StdDev, report.Rate)
	}
}

func TestDetectAnomalies_FlagBoundaryTolerance(t *testing.T) {
	// {1,2,3}: population σ = √(2/3), |Z| = 1.224745 at both ends.
	// The tolerance admits a threshold a fraction above the score but not
	// one clearly beyond it.
	report, err := DetectAnomalies([]float64{1, 2, 3}, 1.22)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Anomalies) != 2 {
		t.Errorf("threshold 1.22 flagged %d, want 2", len(report.Anomalies))
	}

	report, err = DetectAnomalies([]float64{1, 2, 3}, 1.23)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Anomalies) != 0 {
		t.Errorf("threshold 1.23 flagged %d, want 0", len(report.Anomalies))
	}
}

func TestDetectAnomalies_CountMonotonicInThreshold(t *testing.T) {
	// Lowering the threshold can only flag more, never fewer
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 100, -50}
	prev := -1
	for _, threshold := range []float64{3.0, 2.0, 1.5, 1.0, 0.5, 0.1} {
		report, err := DetectAnomalies(values, threshold)
		if err != nil {
			t.Fatalf("threshold %f: %v", threshold, err)
		}
		if prev >= 0 && len(report.Anomalies) < prev {
			t.Errorf("threshold %f flagged %d, fewer than %d at the higher threshold",
				threshold, len(report.Anomalies), prev)
		}
		prev = len(report.Anomalies)
	}
}

func TestDetectAnomalies_RecordsSortedByIndex(t *testing.T) {
	report, err := DetectAnomalies([]float64{-100, 1, 2, 1, 2, 1, 2, 1, 2, 100}, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(report.Anomalies); i++ {
		if report.Anomalies[i].Index <= report.Anomalies[i-1].Index {
			t.Fatalf("anomalies not sorted by index: %+v", report.Anomalies)
		}
	}
}

func TestDetectAnomalies_InvalidThreshold(t *testing.T) {
	for _, threshold := range []float64{0, -1} {
		_, err := DetectAnomalies([]float64{1, 2, 3}, threshold)
		if !errors.Is(err, core.ErrInvalidThreshold) {
			t.Errorf("threshold %f: expected ErrInvalidThreshold, got %v", threshold, err)
		}
	}
}

func TestDetectAnomalies_InsufficientData(t *testing.T) {
	_, err := DetectAnomalies([]float64{42}, 2.0)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
