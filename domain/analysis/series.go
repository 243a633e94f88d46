package analysis

import (
	"fmt"

	"chatbi/domain/core"
	"chatbi/domain/table"
)

// TimeSeriesPoint is a (timestamp, value) pair derived from two named
// columns of a tabular result. The timestamp is carried as the query layer
// rendered it; ordering follows the input rows.
type TimeSeriesPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// ExtractTimeSeries pulls (time, value) pairs out of a result. Rows with a
// nil value cell are skipped; a nil time cell with a non-nil value is kept
// with an empty timestamp so the value sequence stays intact.
func ExtractTimeSeries(res table.Result, timeColumn, valueColumn string) ([]TimeSeriesPoint, error) {
	if !res.HasColumn(timeColumn) {
		return nil, core.NewColumnNotFoundError(timeColumn)
	}
	if !res.HasColumn(valueColumn) {
		return nil, core.NewColumnNotFoundError(valueColumn)
	}

	points := make([]TimeSeriesPoint, 0, len(res.Rows))
	for i, row := range res.Rows {
		raw := row[valueColumn]
		if raw == nil {
			continue
		}
		v, ok := table.Float(raw)
		if !ok {
			return nil, core.NewNonNumericError(valueColumn, i)
		}
		p := TimeSeriesPoint{Value: v}
		if ts := row[timeColumn]; ts != nil {
			p.Timestamp = fmt.Sprint(ts)
		}
		points = append(points, p)
	}
	return points, nil
}

// SeriesValues projects the value component of a point sequence
func SeriesValues(points []TimeSeriesPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
