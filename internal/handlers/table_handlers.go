package handlers

import (
	"net/http"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// TableHandler holds the table service.
type TableHandler struct {
	tableService services.TableService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(ts services.TableService) *TableHandler {
	return &TableHandler{tableService: ts}
}

// GetTables lists tables, optionally filtered by ?available=true|false.
func (h *TableHandler) GetTables(c *gin.Context) {
	var filters models.TableFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBindError(c, err)
		return
	}
	tables, err := h.tableService.ListTables(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "GetTables")
		return
	}
	if tables == nil {
		tables = []models.Table{}
	}
	c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) GetTableByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	table, err := h.tableService.GetTable(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetTableByID")
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) CreateTable(c *gin.Context) {
	var req services.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	table, err := h.tableService.CreateTable(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateTable")
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (h *TableHandler) UpdateTable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	table, err := h.tableService.UpdateTable(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateTable")
		return
	}
	c.JSON(http.StatusOK, table)
}

// DeleteTable removes a table unless it still has active orders.
func (h *TableHandler) DeleteTable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.tableService.DeleteTable(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteTable")
		return
	}
	respondMessage(c, "Table removed")
}
