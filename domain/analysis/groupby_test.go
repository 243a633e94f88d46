package analysis

import (
	"errors"
	"math"
	"testing"

	"chatbi/domain/core"
	"chatbi/domain/table"
)

func regionSales() table.Result {
	return table.Result{
		Columns: []string{"region", "sales"},
		Rows: []table.Row{
			{"region": "A", "sales": 10},
			{"region": "B", "sales": 5},
			{"region": "A", "sales": 20},
		},
	}
}

func TestAggregateGroups_SingleDimension(t *testing.T) {
	groups, err := AggregateGroups(regionSales(), []string{"region"}, "sales")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	// Sorted by mean descending: A (15) before B (5)
	a, b := groups[0], groups[1]
	if a.Key != "A" || a.Count != 2 || a.Mean != 15 || a.Median != 15 {
		t.Errorf("group A = %+v, want count 2 mean 15 median 15", a)
	}
	if b.Key != "B" || b.Count != 1 || b.Mean != 5 || b.StdDev != 0 {
		t.Errorf("group B = %+v, want count 1 mean 5 stddev 0", b)
	}

	total := 0
	for _, g := range groups {
		total += g.Count
	}
	if total != 3 {
		t.Errorf("group counts sum to %d, want row count 3", total)
	}
}

func TestAggregateGroups_MultiDimension(t *testing.T) {
	res := table.Result{
		Columns: []string{"region", "channel", "sales"},
		Rows: []table.Row{
			{"region": "A", "channel": "web", "sales": 10},
			{"region": "A", "channel": "store", "sales": 30},
			{"region": "A", "channel": "web", "sales": 14},
		},
	}

	groups, err := AggregateGroups(res, []string{"region", "channel"}, "sales")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "A / store" || groups[0].Mean != 30 {
		t.Errorf("top group = %+v, want A / store mean 30", groups[0])
	}
	if groups[1].Key != "A / web" || groups[1].Count != 2 || groups[1].Mean != 12 {
		t.Errorf("second group = %+v, want A / web count 2 mean 12", groups[1])
	}
}

func TestAggregateGroups_NullDimensionIsOwnGroup(t *testing.T) {
	res := table.Result{
		Columns: []string{"region", "sales"},
		Rows: []table.Row{
			{"region": nil, "sales": 8},
			{"region": "A", "sales": 2},
			{"region": nil, "sales": 4},
		},
	}

	groups, err := AggregateGroups(res, []string{"region"}, "sales")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "(null)" || groups[0].Count != 2 || groups[0].Mean != 6 {
		t.Errorf("null group = %+v, want key (null) count 2 mean 6", groups[0])
	}
}

func TestAggregateGroups_EvenGroupMedian(t *testing.T) {
	res := table.Result{
		Columns: []string{"region", "sales"},
		Rows: []table.Row{
			{"region": "A", "sales": 1},
			{"region": "A", "sales": 2},
			{"region": "A", "sales": 3},
			{"region": "A", "sales": 10},
		},
	}

	groups, err := AggregateGroups(res, []string{"region"}, "sales")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(groups[0].Median-2.5) > 1e-9 {
		t.Errorf("median = %f, want 2.5 (mean of the two middle values)", groups[0].Median)
	}
}

func TestAggregateGroups_Errors(t *testing.T) {
	res := regionSales()

	if _, err := AggregateGroups(table.Result{Columns: res.Columns}, []string{"region"}, "sales"); !errors.Is(err, core.ErrEmptyInput) {
		t.Errorf("no rows: expected ErrEmptyInput, got %v", err)
	}
	if _, err := AggregateGroups(res, nil, "sales"); !errors.Is(err, core.ErrEmptyInput) {
		t.Errorf("no dimensions: expected ErrEmptyInput, got %v", err)
	}
	if _, err := AggregateGroups(res, []string{"country"}, "sales"); !errors.Is(err, core.ErrColumnNotFound) {
		t.Errorf("bad dimension: expected ErrColumnNotFound, got %v", err)
	}
	if _, err := AggregateGroups(res, []string{"region"}, "revenue"); !errors.Is(err, core.ErrColumnNotFound) {
		t.Errorf("bad metric: expected ErrColumnNotFound, got %v", err)
	}

	bad := table.Result{
		Columns: []string{"region", "sales"},
		Rows:    []table.Row{{"region": "A", "sales": "n/a"}},
	}
	if _, err := AggregateGroups(bad, []string{"region"}, "sales"); !errors.Is(err, core.ErrNonNumeric) {
		t.Errorf("text metric: expected ErrNonNumeric, got %v", err)
	}
}

func TestGroupInsights(t *testing.T) {
	groups, err := AggregateGroups(regionSales(), []string{"region"}, "sales")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insights := GroupInsights(groups, "sales")
	if len(insights) != 2 {
		t.Fatalf("expected 2 insights, got %d: %v", len(insights), insights)
	}
	if insights[0] != "A leads on average sales (15.00 across 2 rows)" {
		t.Errorf("unexpected leader insight: %q", insights[0])
	}

	if got := GroupInsights(nil, "sales"); len(got) != 0 {
		t.Errorf("expected no insights for no groups, got %v", got)
	}
}
