package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/youngtech-edu/records-api/internal/service"
	"github.com/youngtech-edu/records-api/pkg/response"
)

// ExportHandler exposes roster download endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Students godoc
// @Summary Download the student roster
// @Tags Exports
// @Produce text/csv
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/students [get]
func (h *ExportHandler) Students(c *gin.Context) {
	payload, contentType, err := h.exports.Students(c.Request.Context(), c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="students.`+c.DefaultQuery("format", service.FormatCSV)+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

// Departments godoc
// @Summary Download the department list
// @Tags Exports
// @Produce text/csv
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/departments [get]
func (h *ExportHandler) Departments(c *gin.Context) {
	payload, contentType, err := h.exports.Departments(c.Request.Context(), c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="departments.`+c.DefaultQuery("format", service.FormatCSV)+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
