package api

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	apperrors "chatbi/internal/errors"
)

func TestReportExportEndpoint(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, "/report/export", map[string]any{
		"query_result": map[string]any{
			"columns": []string{"region", "sales"},
			"rows": []map[string]any{
				{"region": "A", "sales": 10},
				{"region": "B", "sales": 5},
			},
		},
		"sheet_name": "Sales",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != xlsxContentType {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "attachment;") {
		t.Errorf("Content-Disposition = %q", got)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a readable workbook: %v", err)
	}
	defer f.Close()
	if v, err := f.GetCellValue("Sales", "A1"); err != nil || v != "region" {
		t.Errorf("A1 = %q (%v), want region", v, err)
	}
	if v, err := f.GetCellValue("Sales", "B3"); err != nil || v != "5" {
		t.Errorf("B3 = %q (%v), want 5", v, err)
	}
}

func TestReportExportEndpoint_NoColumns(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, "/report/export", map[string]any{
		"query_result": map[string]any{"columns": []string{}, "rows": []map[string]any{}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != apperrors.CodeEmptyInput {
		t.Errorf("code = %q, want %q", code, apperrors.CodeEmptyInput)
	}
}
