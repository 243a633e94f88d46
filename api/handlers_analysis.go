package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatbi/domain/analysis"
	"chatbi/domain/table"
	apperrors "chatbi/internal/errors"
)

// timeSeriesRequest is the body of POST /analyze/time-series
type timeSeriesRequest struct {
	QueryResult  table.Result `json:"query_result" binding:"required"`
	TimeColumn   string       `json:"time_column" binding:"required"`
	ValueColumn  string       `json:"value_column" binding:"required"`
	PredictSteps int          `json:"predict_steps"`
}

func (s *Server) handleAnalyzeTimeSeries(c *gin.Context) {
	var req timeSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	if req.PredictSteps < 0 {
		s.respondError(c, apperrors.InvalidInput("predict_steps must be non-negative"))
		return
	}

	points, err := analysis.ExtractTimeSeries(req.QueryResult, req.TimeColumn, req.ValueColumn)
	if err != nil {
		s.respondError(c, err)
		return
	}

	report, err := analysis.AnalyzeTimeSeries(analysis.SeriesValues(points), req.PredictSteps)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// detectAnomaliesRequest is the body of POST /detect-anomalies
type detectAnomaliesRequest struct {
	QueryResult table.Result `json:"query_result" binding:"required"`
	ColumnName  string       `json:"column_name" binding:"required"`
	Threshold   *float64     `json:"threshold"`
}

func (s *Server) handleDetectAnomalies(c *gin.Context) {
	var req detectAnomaliesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	threshold := analysis.DefaultZScoreThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	values, err := req.QueryResult.NumericColumn(req.ColumnName)
	if err != nil {
		s.respondError(c, err)
		return
	}

	report, err := analysis.DetectAnomalies(values, threshold)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// multiDimensionalRequest is the body of POST /analyze/multi-dimensional
type multiDimensionalRequest struct {
	QueryResult table.Result `json:"query_result" binding:"required"`
	Dimensions  []string     `json:"dimensions" binding:"required"`
	Metric      string       `json:"metric" binding:"required"`
}

func (s *Server) handleAnalyzeMultiDimensional(c *gin.Context) {
	var req multiDimensionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	groups, err := analysis.AggregateGroups(req.QueryResult, req.Dimensions, req.Metric)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups":   groups,
		"insights": analysis.GroupInsights(groups, req.Metric),
	})
}

// compareRequest is the body of POST /compare/detailed
type compareRequest struct {
	CurrentResult  table.Result `json:"current_result" binding:"required"`
	PreviousResult table.Result `json:"previous_result" binding:"required"`
	TopChanges     int          `json:"top_changes"`
}

func (s *Server) handleCompareDetailed(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	report := analysis.Compare(req.CurrentResult, req.PreviousResult, req.TopChanges)
	c.JSON(http.StatusOK, report)
}
