package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"chatbi/domain/core"
	"chatbi/domain/table"
)

// nullKey stands in for a NULL dimension value. NULL is its own group key:
// rows with a missing region are one group, not merged into any other.
const nullKey = "(null)"

// keySeparator joins dimension values into an internal bucket key. The unit
// separator cannot appear in rendered cell values.
const keySeparator = "\x1f"

// GroupSummary holds per-group summary statistics for one distinct
// combination of dimension values.
//
// Median is the mean of the two middle values for even-sized groups (what
// montanaflynn/stats computes). StdDev is the sample standard deviation
// (N-1 denominator), 0 for a group of one.
type GroupSummary struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	StdDev float64  `json:"stddev"`
}

// AggregateGroups buckets rows by the tuple of dimension-column values in
// first-seen order and computes count, mean, median and sample standard
// deviation of the metric column per group. Output is sorted by mean
// descending with first-seen order breaking ties.
func AggregateGroups(res table.Result, dimensions []string, metric string) ([]GroupSummary, error) {
	if len(res.Rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to aggregate", core.ErrEmptyInput)
	}
	if len(dimensions) == 0 {
		return nil, fmt.Errorf("%w: no grouping columns supplied", core.ErrEmptyInput)
	}
	for _, dim := range dimensions {
		if !res.HasColumn(dim) {
			return nil, core.NewColumnNotFoundError(dim)
		}
	}
	if !res.HasColumn(metric) {
		return nil, core.NewColumnNotFoundError(metric)
	}

	type bucket struct {
		values  []string
		metrics []float64
	}
	order := make([]string, 0)
	buckets := make(map[string]*bucket)

	for i, row := range res.Rows {
		raw := row[metric]
		if raw == nil {
			return nil, core.NewNonNumericError(metric, i)
		}
		v, ok := table.Float(raw)
		if !ok {
			return nil, core.NewNonNumericError(metric, i)
		}

		parts := make([]string, len(dimensions))
		for j, dim := range dimensions {
			if cell := row[dim]; cell != nil {
				parts[j] = fmt.Sprint(cell)
			} else {
				parts[j] = nullKey
			}
		}
		key := strings.Join(parts, keySeparator)

		b, seen := buckets[key]
		if !seen {
			b = &bucket{values: parts}
			buckets[key] = b
			order = append(order, key)
		}
		b.metrics = append(b.metrics, v)
	}

	groups := make([]GroupSummary, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		mean, err := stats.Mean(b.metrics)
		if err != nil {
			return nil, err
		}
		median, err := stats.Median(b.metrics)
		if err != nil {
			return nil, err
		}
		stddev := 0.0
		if len(b.metrics) > 1 {
			stddev, err = stats.StandardDeviationSample(b.metrics)
			if err != nil {
				return nil, err
			}
		}
		groups = append(groups, GroupSummary{
			Key:    strings.Join(b.values, " / "),
			Values: b.values,
			Count:  len(b.metrics),
			Mean:   mean,
			Median: median,
			StdDev: stddev,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Mean > groups[j].Mean
	})
	return groups, nil
}
