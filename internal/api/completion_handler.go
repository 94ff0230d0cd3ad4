package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
)

type CompletionHandler struct {
	completionService service.CompletionService
}

func NewCompletionHandler(completionService service.CompletionService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService}
}

// --- DTOs ---

type MarkCompleteRequest struct {
	WorkoutDay  string `json:"workoutDay" binding:"required"`
	WorkoutName string `json:"workoutName"`
}

type CompletionResponse struct {
	ID             string    `json:"id"`
	WorkoutDay     string    `json:"workoutDay"`
	WorkoutName    string    `json:"workoutName"`
	CompletionDate string    `json:"completionDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

type StreakResponse struct {
	Streak int `json:"streak"`
}

type TodayResponse struct {
	WorkoutDay string `json:"workoutDay"`
	Completed  bool   `json:"completed"`
}

// MarkComplete godoc
// @Summary Mark a workout day as completed today
// @Tags Completions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param completion body MarkCompleteRequest true "Workout day"
// @Success 201 {object} CompletionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Already completed today"
// @Failure 422 {object} gin.H "Workout day is not scheduled today"
// @Failure 503 {object} gin.H "Store unavailable"
// @Router /completions [post]
func (h *CompletionHandler) MarkComplete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req MarkCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	completion, err := h.completionService.MarkComplete(c.Request.Context(), userID, domain.WorkoutDay(req.WorkoutDay), req.WorkoutName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapCompletionToResponse(completion))
}

// UnmarkToday godoc
// @Summary Remove today's completion of a workout day
// @Description Only today's completion can be removed.
// @Tags Completions
// @Security BearerAuth
// @Param workoutDay path string true "Workout day label"
// @Success 204 "Removed"
// @Failure 404 {object} gin.H "Not completed today"
// @Router /completions/{workoutDay} [delete]
func (h *CompletionHandler) UnmarkToday(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.completionService.UnmarkToday(c.Request.Context(), userID, domain.WorkoutDay(c.Param("workoutDay"))); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List godoc
// @Summary List the user's completions, newest first
// @Tags Completions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CompletionResponse
// @Router /completions [get]
func (h *CompletionHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	completions, err := h.completionService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapCompletionsToResponse(completions))
}

// Streak godoc
// @Summary Current workout streak in days
// @Tags Completions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StreakResponse
// @Router /completions/streak [get]
func (h *CompletionHandler) Streak(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	streak, err := h.completionService.Streak(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StreakResponse{Streak: streak})
}

// Today godoc
// @Summary Today's completion state
// @Description With ?workoutDay= reports whether that day is completed today,
// @Description otherwise returns the full summary.
// @Tags Completions
// @Produce json
// @Security BearerAuth
// @Param workoutDay query string false "Workout day label"
// @Success 200 {object} service.CompletionSummary
// @Router /completions/today [get]
func (h *CompletionHandler) Today(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if day := c.Query("workoutDay"); day != "" {
		done, err := h.completionService.IsCompletedToday(c.Request.Context(), userID, domain.WorkoutDay(day))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, TodayResponse{WorkoutDay: day, Completed: done})
		return
	}

	summary, err := h.completionService.Summary(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func MapCompletionToResponse(completion *domain.WorkoutCompletion) CompletionResponse {
	return CompletionResponse{
		ID:             completion.ID.Hex(),
		WorkoutDay:     string(completion.WorkoutDay),
		WorkoutName:    completion.WorkoutName,
		CompletionDate: completion.CompletionDate.String(),
		CreatedAt:      completion.CreatedAt,
	}
}

func MapCompletionsToResponse(completions []domain.WorkoutCompletion) []CompletionResponse {
	resp := make([]CompletionResponse, len(completions))
	for i := range completions {
		resp[i] = MapCompletionToResponse(&completions[i])
	}
	return resp
}
