package analysis

import (
	"fmt"
	"math"
	"sort"
)

// Insight generation is a pure function from typed diff records to strings,
// kept apart from the numeric computation so the numbers can be unit-tested
// independently of phrasing.

// ComparisonInsights renders the row-count shift and the topN column changes
// by absolute percent change.
func ComparisonInsights(rows RowChange, changes []ColumnChange, topN int) []string {
	insights := []string{}

	switch {
	case rows.PercentChange != nil && rows.Delta != 0:
		insights = append(insights, fmt.Sprintf("Row count %s %.1f%% (%d to %d)",
			direction(float64(rows.Delta)), math.Abs(*rows.PercentChange), rows.Previous, rows.Current))
	case rows.Previous == 0 && rows.Current > 0:
		insights = append(insights, fmt.Sprintf("Row count went from 0 to %d (previous period empty)", rows.Current))
	}

	ranked := make([]ColumnChange, 0, len(changes))
	for _, ch := range changes {
		if ch.PercentChange != nil && *ch.PercentChange != 0 {
			ranked = append(ranked, ch)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(*ranked[i].PercentChange) > math.Abs(*ranked[j].PercentChange)
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	for _, ch := range ranked {
		insights = append(insights, fmt.Sprintf("Average %s %s %.1f%% (%.2f to %.2f)",
			ch.Column, direction(*ch.PercentChange), math.Abs(*ch.PercentChange), ch.PreviousAvg, ch.CurrentAvg))
	}
	return insights
}

// GroupInsights summarizes a sorted group aggregation: the leading group,
// and the spread between top and bottom when there is more than one group.
func GroupInsights(groups []GroupSummary, metric string) []string {
	if len(groups) == 0 {
		return []string{}
	}

	top := groups[0]
	insights := []string{fmt.Sprintf("%s leads on average %s (%.2f across %d rows)",
		top.Key, metric, top.Mean, top.Count)}

	if len(groups) > 1 {
		bottom := groups[len(groups)-1]
		if bottom.Mean != 0 {
			ratio := top.Mean / bottom.Mean
			insights = append(insights, fmt.Sprintf("%s averages %.1fx the %s of %s (%.2f vs %.2f)",
				top.Key, ratio, metric, bottom.Key, top.Mean, bottom.Mean))
		} else {
			insights = append(insights, fmt.Sprintf("%s trails with a zero average %s", bottom.Key, metric))
		}
	}
	return insights
}

func direction(v float64) string {
	if v > 0 {
		return "grew"
	}
	return "dropped"
}
