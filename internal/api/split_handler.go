package api

import (
	"fmt"
	"net/http"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
)

type SplitHandler struct {
	splitService service.SplitService
}

func NewSplitHandler(splitService service.SplitService) *SplitHandler {
	return &SplitHandler{splitService: splitService}
}

type SaveSplitRequest struct {
	SplitType string           `json:"splitType"`
	Plan      domain.SplitPlan `json:"plan" binding:"required"`
}

// GetCurrentSplit godoc
// @Summary The split the user currently follows
// @Tags Splits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.WorkoutSplit
// @Failure 404 {object} gin.H "No split saved yet"
// @Router /splits/current [get]
func (h *SplitHandler) GetCurrentSplit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	split, err := h.splitService.Current(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, split)
}

// SaveCurrentSplit godoc
// @Summary Replace the user's split
// @Tags Splits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param split body SaveSplitRequest true "Split"
// @Success 200 {object} domain.WorkoutSplit
// @Failure 400 {object} gin.H "Invalid split"
// @Router /splits/current [put]
func (h *SplitHandler) SaveCurrentSplit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req SaveSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	split, err := h.splitService.Save(c.Request.Context(), userID, req.SplitType, req.Plan)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, split)
}
