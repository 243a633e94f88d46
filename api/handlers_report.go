package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chatbi/adapters/excel"
	"chatbi/domain/table"
	apperrors "chatbi/internal/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportExportRequest is the body of POST /report/export
type reportExportRequest struct {
	QueryResult table.Result `json:"query_result" binding:"required"`
	SheetName   string       `json:"sheet_name"`
}

func (s *Server) handleReportExport(c *gin.Context) {
	var req reportExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	if len(req.QueryResult.Columns) == 0 {
		s.respondError(c, apperrors.New(apperrors.CodeEmptyInput, "query_result has no columns"))
		return
	}

	// Build the workbook in memory first: once bytes hit the response the
	// status and headers are committed, so a late failure could no longer be
	// reported to the client.
	var buf bytes.Buffer
	if err := excel.ExportResult(&buf, &req.QueryResult, req.SheetName); err != nil {
		s.respondError(c, apperrors.Wrap(err, "report export failed"))
		return
	}

	filename := fmt.Sprintf("report-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
