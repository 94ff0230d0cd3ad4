package api

import (
	"net/http"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// CreateExport godoc
// @Summary Export workout history as CSV
// @Description Uploads the user's completions and sessions and returns a temporary download URL.
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Success 201 {object} service.Export
// @Failure 402 {object} gin.H "Membership required"
// @Failure 503 {object} gin.H "Storage unavailable"
// @Router /exports [post]
func (h *ExportHandler) CreateExport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	export, err := h.exportService.ExportHistory(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, export)
}
