package analysis

import (
	"math"

	"chatbi/domain/table"
)

// DefaultInsightCount limits comparison insights to the largest changes
const DefaultInsightCount = 3

// RowChange reports the row-count delta between two results. PercentChange
// is nil when the previous count is zero ("N/A", never infinity).
type RowChange struct {
	Previous      int      `json:"previous"`
	Current       int      `json:"current"`
	Delta         int      `json:"delta"`
	PercentChange *float64 `json:"percent_change"`
}

// ColumnChange reports the average shift for one column present and numeric
// in both results.
type ColumnChange struct {
	Column        string   `json:"column"`
	PreviousAvg   float64  `json:"previous_avg"`
	CurrentAvg    float64  `json:"current_avg"`
	PercentChange *float64 `json:"percent_change"`
}

// ComparisonReport diffs a current result against a previous one
type ComparisonReport struct {
	RowChange     RowChange      `json:"row_change"`
	ColumnChanges []ColumnChange `json:"column_changes"`
	Insights      []string       `json:"insights"`
}

// Compare diffs two tabular results on row counts and the averages of every
// column that is present in both and numeric-coercible in both. Insights
// cover the topN changes by absolute percent change; topN <= 0 falls back to
// DefaultInsightCount.
func Compare(current, previous table.Result, topN int) *ComparisonReport {
	if topN <= 0 {
		topN = DefaultInsightCount
	}

	report := &ComparisonReport{
		RowChange: RowChange{
			Previous:      previous.RowCount(),
			Current:       current.RowCount(),
			Delta:         current.RowCount() - previous.RowCount(),
			PercentChange: percentChange(float64(previous.RowCount()), float64(current.RowCount())),
		},
		ColumnChanges: []ColumnChange{},
	}

	for _, col := range current.Columns {
		if !previous.HasColumn(col) {
			continue
		}
		curAvg, _, curOK := current.NumericAverage(col)
		prevAvg, _, prevOK := previous.NumericAverage(col)
		if !curOK || !prevOK {
			continue
		}
		report.ColumnChanges = append(report.ColumnChanges, ColumnChange{
			Column:        col,
			PreviousAvg:   prevAvg,
			CurrentAvg:    curAvg,
			PercentChange: percentChange(prevAvg, curAvg),
		})
	}

	report.Insights = ComparisonInsights(report.RowChange, report.ColumnChanges, topN)
	return report
}

// percentChange guards the zero-previous case by reporting nil instead of a
// division by zero.
func percentChange(previous, current float64) *float64 {
	if previous == 0 {
		return nil
	}
	pct := (current - previous) / math.Abs(previous) * 100
	return &pct
}
