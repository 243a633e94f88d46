package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"chatbi/domain/table"
)

func TestWriteResult(t *testing.T) {
	res := &table.Result{
		Columns: []string{"region", "sales"},
		Rows: []table.Row{
			{"region": "A", "sales": 15.5},
			{"region": "B", "sales": nil},
		},
	}

	f, err := WriteResult(res, "Sales")
	require.NoError(t, err)
	defer f.Close()

	cases := []struct {
		cell string
		want string
	}{
		{"A1", "region"},
		{"B1", "sales"},
		{"A2", "A"},
		{"B2", "15.5"},
		{"A3", "B"},
		{"B3", ""}, // nil cell left blank
	}
	for _, tc := range cases {
		got, err := f.GetCellValue("Sales", tc.cell)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "cell %s", tc.cell)
	}
}

func TestExportResult_RoundTrip(t *testing.T) {
	res := &table.Result{
		Columns: []string{"metric"},
		Rows:    []table.Row{{"metric": 7}},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportResult(&buf, res, ""))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err, "workbook does not open")
	defer f.Close()

	assert.Equal(t, DefaultSheetName, f.GetSheetName(0))
	v, err := f.GetCellValue(DefaultSheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "7", v)
}
