package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chatbi/domain/core"
	"chatbi/domain/source"
	apperrors "chatbi/internal/errors"
)

// dataSourceRequest is the create/update body for a data source
type dataSourceRequest struct {
	Name        string `json:"name" binding:"required"`
	Driver      string `json:"driver" binding:"required"`
	DSN         string `json:"dsn" binding:"required"`
	Description string `json:"description"`
	Enabled     *bool  `json:"enabled"`
}

func (s *Server) handleCreateDataSource(c *gin.Context) {
	var req dataSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	ds := source.NewDataSource(req.Name, source.Driver(req.Driver), req.DSN)
	ds.Description = req.Description
	if req.Enabled != nil {
		ds.Enabled = *req.Enabled
	}
	if err := ds.Validate(); err != nil {
		s.respondError(c, apperrors.ValidationError(err.Error()))
		return
	}

	// Reject configurations we cannot reach before persisting them
	if err := s.executor.Ping(c.Request.Context(), ds); err != nil {
		s.respondError(c, apperrors.ValidationError("connection test failed: "+err.Error()))
		return
	}

	if err := s.sources.Create(c.Request.Context(), ds); err != nil {
		s.respondError(c, err)
		return
	}
	s.log.Info("created data source %s (%s)", ds.Name, ds.ID)
	c.JSON(http.StatusCreated, ds)
}

func (s *Server) handleListDataSources(c *gin.Context) {
	list, err := s.sources.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasources": list})
}

func (s *Server) handleGetDataSource(c *gin.Context) {
	ds, err := s.sources.GetByID(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (s *Server) handleUpdateDataSource(c *gin.Context) {
	var req dataSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	ds, err := s.sources.GetByID(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, err)
		return
	}

	ds.Name = req.Name
	ds.Driver = source.Driver(req.Driver)
	ds.DSN = req.DSN
	ds.Description = req.Description
	if req.Enabled != nil {
		ds.Enabled = *req.Enabled
	}
	if err := ds.Validate(); err != nil {
		s.respondError(c, apperrors.ValidationError(err.Error()))
		return
	}

	if err := s.sources.Update(c.Request.Context(), ds); err != nil {
		s.respondError(c, err)
		return
	}
	s.invalidatePool(ds.ID)
	c.JSON(http.StatusOK, ds)
}

func (s *Server) handleDeleteDataSource(c *gin.Context) {
	id := core.ID(c.Param("id"))
	if err := s.sources.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	s.invalidatePool(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTestDataSource(c *gin.Context) {
	ds, err := s.sources.GetByID(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.executor.Ping(c.Request.Context(), ds); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleIntrospectDataSource(c *gin.Context) {
	ds, err := s.sources.GetByID(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	schemas, err := s.executor.Introspect(c.Request.Context(), ds)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tables": schemas})
}

// runQueryRequest is the body of POST /api/datasources/:id/query
type runQueryRequest struct {
	SQL string `json:"sql" binding:"required"`
}

func (s *Server) handleRunQuery(c *gin.Context) {
	var req runQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	ds, err := s.sources.GetByID(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !ds.Enabled {
		s.respondError(c, apperrors.ValidationError("data source is disabled"))
		return
	}

	result, err := s.executor.Execute(c.Request.Context(), ds, req.SQL)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// dataTableRequest is the create/update body for a data table
type dataTableRequest struct {
	Name        string `json:"name" binding:"required"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateDataTable(c *gin.Context) {
	var req dataTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	ds, err := s.sources.GetByID(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, err)
		return
	}

	now := time.Now().UTC()
	dt := &source.DataTable{
		ID:           core.NewID(),
		DataSourceID: ds.ID,
		Name:         req.Name,
		DisplayName:  req.DisplayName,
		Description:  req.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.tables.Create(c.Request.Context(), dt); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dt)
}

func (s *Server) handleListDataTables(c *gin.Context) {
	list, err := s.tables.ListByDataSource(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tables": list})
}

func (s *Server) handleUpdateDataTable(c *gin.Context) {
	var req dataTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	dt, err := s.tables.GetByID(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	dt.Name = req.Name
	dt.DisplayName = req.DisplayName
	dt.Description = req.Description
	if err := s.tables.Update(c.Request.Context(), dt); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dt)
}

func (s *Server) handleDeleteDataTable(c *gin.Context) {
	if err := s.tables.Delete(c.Request.Context(), core.ID(c.Param("id"))); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// relationRequest is the create body for a table relation
type relationRequest struct {
	SourceTableID string `json:"source_table_id" binding:"required"`
	TargetTableID string `json:"target_table_id" binding:"required"`
	SourceColumn  string `json:"source_column" binding:"required"`
	TargetColumn  string `json:"target_column" binding:"required"`
	RelationType  string `json:"relation_type" binding:"required"`
}

func (s *Server) handleCreateRelation(c *gin.Context) {
	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	rel := &source.TableRelation{
		ID:            core.NewID(),
		SourceTableID: core.ID(req.SourceTableID),
		TargetTableID: core.ID(req.TargetTableID),
		SourceColumn:  req.SourceColumn,
		TargetColumn:  req.TargetColumn,
		RelationType:  req.RelationType,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.relations.Create(c.Request.Context(), rel); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

func (s *Server) handleListRelations(c *gin.Context) {
	list, err := s.relations.ListByTable(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"relations": list})
}

func (s *Server) handleDeleteRelation(c *gin.Context) {
	if err := s.relations.Delete(c.Request.Context(), core.ID(c.Param("id"))); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
