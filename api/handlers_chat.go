package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"

	"chatbi/domain/analysis"
	"chatbi/domain/core"
	apperrors "chatbi/internal/errors"
)

// chatQueryRequest is the body of POST /chat/query
type chatQueryRequest struct {
	DataSourceID string `json:"datasource_id" binding:"required"`
	Question     string `json:"question" binding:"required"`
	PredictSteps int    `json:"predict_steps"`
}

// handleChatQuery runs the conversational flow: the model turns the question
// into SQL, the executor fetches the result through the pool, the local
// statistics run over the first numeric column, and the model narrates the
// outcome. The request deadline set by the timeout middleware covers the
// whole chain.
func (s *Server) handleChatQuery(c *gin.Context) {
	var req chatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	ctx := c.Request.Context()

	ds, err := s.sources.GetByID(ctx, core.ID(req.DataSourceID))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !ds.Enabled {
		s.respondError(c, apperrors.ValidationError("data source is disabled"))
		return
	}

	schemas, err := s.executor.Introspect(ctx, ds)
	if err != nil {
		s.respondError(c, err)
		return
	}

	query, err := s.generator.GenerateSQL(ctx, req.Question, schemas)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.log.Debug("generated SQL for %q: %s", req.Question, query)

	result, err := s.executor.Execute(ctx, ds, query)
	if err != nil {
		s.respondError(c, err)
		return
	}

	// Local statistics over the first numeric column, when one exists.
	// A result with no numeric column (or too few rows) still gets a
	// narrative, just no trend report.
	var tsReport *analysis.TimeSeriesReport
	for _, col := range result.Columns {
		values, err := result.NumericColumn(col)
		if err != nil || len(values) < 2 {
			continue
		}
		if report, err := analysis.AnalyzeTimeSeries(values, req.PredictSteps); err == nil {
			tsReport = report
			break
		}
	}

	narrative, err := s.generator.AnalyzeResult(ctx, req.Question, query, result)
	if err != nil {
		s.respondError(c, apperrors.ExternalServiceError("model", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sql":           query,
		"result":        result,
		"trend":         tsReport,
		"analysis":      narrative,
		"analysis_html": string(markdown.ToHTML([]byte(narrative), nil, nil)),
	})
}
