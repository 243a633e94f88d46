package table

import (
	"errors"
	"testing"

	"chatbi/domain/core"
)

func TestResult_Column(t *testing.T) {
	res := Result{
		Columns: []string{"region", "sales"},
		Rows: []Row{
			{"region": "A", "sales": 10},
			{"region": "B", "sales": nil},
		},
	}

	values, err := res.Column("region")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 2 || values[0] != "A" {
		t.Errorf("unexpected column values: %v", values)
	}

	_, err = res.Column("missing")
	if !errors.Is(err, core.ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
}

func TestResult_NumericColumn(t *testing.T) {
	res := Result{
		Columns: []string{"sales"},
		Rows: []Row{
			{"sales": 10},
			{"sales": "12.5"},
			{"sales": float32(3)},
		},
	}

	values, err := res.NumericColumn("sales")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{10, 12.5, 3}
	if len(values) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(values))
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("values[%d] = %v, want %v", i, values[i], want[i])
		}
	}
}

func TestResult_NumericColumn_NonNumeric(t *testing.T) {
	res := Result{
		Columns: []string{"sales"},
		Rows:    []Row{{"sales": "not a number"}},
	}
	_, err := res.NumericColumn("sales")
	if !errors.Is(err, core.ErrNonNumeric) {
		t.Errorf("expected ErrNonNumeric, got %v", err)
	}
}

func TestResult_NumericColumn_NilCellIsHardError(t *testing.T) {
	// A nil cell must not compact the sequence: positions in the extracted
	// values are row indices, so a gap before a later value would silently
	// shift every index after it.
	res := Result{
		Columns: []string{"sales"},
		Rows: []Row{
			{"sales": nil},
			{"sales": 10},
			{"sales": 50},
		},
	}
	_, err := res.NumericColumn("sales")
	if !errors.Is(err, core.ErrNonNumeric) {
		t.Errorf("expected ErrNonNumeric for nil cell, got %v", err)
	}
}

func TestResult_NumericAverage(t *testing.T) {
	res := Result{
		Columns: []string{"sales", "name"},
		Rows: []Row{
			{"sales": 10, "name": "a"},
			{"sales": 20, "name": "b"},
			{"sales": nil, "name": "c"},
		},
	}

	avg, n, ok := res.NumericAverage("sales")
	if !ok || n != 2 || avg != 15 {
		t.Errorf("NumericAverage(sales) = %v, %d, %v; want 15, 2, true", avg, n, ok)
	}

	if _, _, ok := res.NumericAverage("name"); ok {
		t.Error("expected text column to be non-numeric")
	}
	if _, _, ok := res.NumericAverage("missing"); ok {
		t.Error("expected missing column to be non-numeric")
	}
}

func TestFloat_Coercions(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{int64(7), 7, true},
		{uint8(3), 3, true},
		{"  42.5 ", 42.5, true},
		{[]byte("12"), 12, true},
		{"", 0, false},
		{"abc", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := Float(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("Float(%#v) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
