package analysis

import (
	"math"
	"strings"
	"testing"

	"chatbi/domain/table"
)

func periodResult(sales ...float64) table.Result {
	res := table.Result{Columns: []string{"region", "sales"}}
	for i, v := range sales {
		res.Rows = append(res.Rows, table.Row{"region": string(rune('A' + i)), "sales": v})
	}
	return res
}

func TestCompare_RowAndColumnChanges(t *testing.T) {
	previous := periodResult(10, 20)
	current := periodResult(15, 25, 35)

	report := Compare(current, previous, 0)

	rc := report.RowChange
	if rc.Previous != 2 || rc.Current != 3 || rc.Delta != 1 {
		t.Errorf("row change = %+v, want 2 -> 3", rc)
	}
	if rc.PercentChange == nil || math.Abs(*rc.PercentChange-50) > 1e-9 {
		t.Errorf("row percent change = %v, want 50", rc.PercentChange)
	}

	if len(report.ColumnChanges) != 1 {
		t.Fatalf("expected 1 column change, got %+v", report.ColumnChanges)
	}
	cc := report.ColumnChanges[0]
	if cc.Column != "sales" || cc.PreviousAvg != 15 || cc.CurrentAvg != 25 {
		t.Errorf("column change = %+v, want sales 15 -> 25", cc)
	}
	if cc.PercentChange == nil || math.Abs(*cc.PercentChange-66.666666) > 1e-3 {
		t.Errorf("sales percent change = %v, want ~66.67", cc.PercentChange)
	}
	if len(report.Insights) == 0 {
		t.Error("expected insights for a changed comparison")
	}
}

func TestCompare_SwappedArgumentsFlipSigns(t *testing.T) {
	a := periodResult(10, 20, 30)
	b := periodResult(5, 10)

	forward := Compare(a, b, 0)
	backward := Compare(b, a, 0)

	if forward.RowChange.Delta != -backward.RowChange.Delta {
		t.Errorf("row deltas do not negate: %d vs %d",
			forward.RowChange.Delta, backward.RowChange.Delta)
	}
	fc, bc := forward.ColumnChanges[0], backward.ColumnChanges[0]
	if fc.PercentChange == nil || bc.PercentChange == nil {
		t.Fatal("expected percent changes on both directions")
	}
	if (*fc.PercentChange > 0) == (*bc.PercentChange > 0) {
		t.Errorf("percent changes share a sign: %f vs %f", *fc.PercentChange, *bc.PercentChange)
	}
}

func TestCompare_ZeroPreviousAverageIsNull(t *testing.T) {
	previous := periodResult(0)
	current := periodResult(10)

	report := Compare(current, previous, 0)
	if len(report.ColumnChanges) != 1 {
		t.Fatalf("expected 1 column change, got %+v", report.ColumnChanges)
	}
	if report.ColumnChanges[0].PercentChange != nil {
		t.Errorf("percent change from zero base = %v, want nil",
			*report.ColumnChanges[0].PercentChange)
	}
}

func TestCompare_EmptyPreviousResult(t *testing.T) {
	report := Compare(periodResult(10), table.Result{Columns: []string{"region", "sales"}}, 0)

	rc := report.RowChange
	if rc.PercentChange != nil {
		t.Errorf("row percent change from empty period = %v, want nil", *rc.PercentChange)
	}
	found := false
	for _, s := range report.Insights {
		if strings.Contains(s, "previous period empty") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an empty-previous insight, got %v", report.Insights)
	}
}

func TestComparisonInsights_TopNRanking(t *testing.T) {
	pct := func(v float64) *float64 { return &v }
	changes := []ColumnChange{
		{Column: "a", PercentChange: pct(5)},
		{Column: "b", PercentChange: pct(-80)},
		{Column: "c", PercentChange: pct(20)},
		{Column: "d", PercentChange: pct(0)}, // unchanged, never reported
	}

	insights := ComparisonInsights(RowChange{}, changes, 2)
	if len(insights) != 2 {
		t.Fatalf("expected 2 insights, got %v", insights)
	}
	if !strings.Contains(insights[0], "b dropped 80.0%") {
		t.Errorf("largest change should lead: %q", insights[0])
	}
	if !strings.Contains(insights[1], "c grew 20.0%") {
		t.Errorf("second insight = %q", insights[1])
	}
}
