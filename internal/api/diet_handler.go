package api

import (
	"net/http"
	"strconv"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
)

type DietHandler struct {
	dietService service.DietService
}

func NewDietHandler(dietService service.DietService) *DietHandler {
	return &DietHandler{dietService: dietService}
}

type DietPlanSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Calories    int    `json:"calories"`
}

// ListPlans godoc
// @Summary Available diet plan templates
// @Tags Diet
// @Produce json
// @Security BearerAuth
// @Success 200 {array} DietPlanSummary
// @Router /diet/plans [get]
func (h *DietHandler) ListPlans(c *gin.Context) {
	plans := h.dietService.Plans()
	resp := make([]DietPlanSummary, len(plans))
	for i, p := range plans {
		resp[i] = DietPlanSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Calories:    p.DailySummary.Calories,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetPlan godoc
// @Summary A diet plan scaled to a calorie target
// @Tags Diet
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param calories query int false "Daily calorie target"
// @Success 200 {object} domain.DietPlan
// @Failure 400 {object} gin.H "Invalid calorie target"
// @Failure 402 {object} gin.H "Membership required"
// @Failure 404 {object} gin.H "Unknown plan"
// @Router /diet/plans/{planId} [get]
func (h *DietHandler) GetPlan(c *gin.Context) {
	target := 0
	if raw := c.Query("calories"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "calories must be a whole number")
			return
		}
		target = parsed
	}

	plan, err := h.dietService.Plan(c.Param("planId"), target)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
