package table

import (
	"encoding/json"
	"strconv"
	"strings"

	"chatbi/domain/core"
)

// Row maps column names to values as produced by the query layer.
type Row map[string]any

// Result is the in-memory representation of a query's output: an ordered
// column list plus ordered rows. It is immutable once produced and owned by
// the caller for the duration of one analysis call.
type Result struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// RowCount returns the number of rows
func (r Result) RowCount() int {
	return len(r.Rows)
}

// HasColumn reports whether the named column is part of the schema
func (r Result) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column extracts the named column as raw values, one per row.
// Rows are open key/value maps, so access goes through this schema-checked
// accessor instead of indexing maps directly.
func (r Result) Column(name string) ([]any, error) {
	if !r.HasColumn(name) {
		return nil, core.NewColumnNotFoundError(name)
	}
	values := make([]any, len(r.Rows))
	for i, row := range r.Rows {
		values[i] = row[name]
	}
	return values, nil
}

// NumericColumn extracts the named column as a float64 sequence, one value
// per row. Nil and non-coercible cells are hard errors: consumers report
// positions as row indices, so the sequence must never be compacted.
func (r Result) NumericColumn(name string) ([]float64, error) {
	raw, err := r.Column(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(raw))
	for i, v := range raw {
		f, ok := Float(v)
		if !ok {
			return nil, core.NewNonNumericError(name, i)
		}
		values[i] = f
	}
	return values, nil
}

// NumericAverage computes the mean over the coercible values of a column.
// ok is false when the column is absent, has no non-nil values, or contains
// a non-nil value that does not coerce. Used by the comparator, which treats
// non-numeric columns as "not comparable" rather than an error.
func (r Result) NumericAverage(name string) (avg float64, n int, ok bool) {
	if !r.HasColumn(name) {
		return 0, 0, false
	}
	var sum float64
	for _, row := range r.Rows {
		v := row[name]
		if v == nil {
			continue
		}
		f, fok := Float(v)
		if !fok {
			return 0, 0, false
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	return sum / float64(n), n, true
}

// Float coerces a dynamically typed cell value to float64.
// Handles the types the SQL drivers and JSON decoding actually produce.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case []byte:
		return Float(string(x))
	default:
		return 0, false
	}
}
