package api

import (
	"fmt"
	"net/http"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

type LogWeightRequest struct {
	Weight       float64 `json:"weight" binding:"required"`
	RecordedDate string  `json:"recordedDate"`
	Notes        string  `json:"notes"`
}

type LogStrengthRequest struct {
	ExerciseName string  `json:"exerciseName" binding:"required"`
	Weight       float64 `json:"weight" binding:"required"`
	Reps         int     `json:"reps" binding:"required"`
	Sets         int     `json:"sets" binding:"required"`
}

// optionalDate parses a YYYY-MM-DD value; empty stays empty.
func optionalDate(raw string) (domain.Date, error) {
	if raw == "" {
		return "", nil
	}
	return domain.ParseDate(raw)
}

// LogWeight godoc
// @Summary Record a body weight
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body LogWeightRequest true "Weight in kg, date defaults to today"
// @Success 201 {object} domain.WeightEntry
// @Failure 400 {object} gin.H "Invalid weight or date"
// @Router /progress/weight [post]
func (h *ProgressHandler) LogWeight(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req LogWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, err := optionalDate(req.RecordedDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	entry, err := h.progressService.LogWeight(c.Request.Context(), userID, req.Weight, date, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Weight godoc
// @Summary Weight history with insights
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.WeightProgress
// @Router /progress/weight [get]
func (h *ProgressHandler) Weight(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	progress, err := h.progressService.Weight(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// DeleteWeight godoc
// @Summary Delete one of the user's weight entries
// @Tags Progress
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204
// @Failure 404 {object} gin.H "Entry not found"
// @Router /progress/weight/{id} [delete]
func (h *ProgressHandler) DeleteWeight(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID format.")
		return
	}
	if err := h.progressService.DeleteWeight(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LogStrength godoc
// @Summary Record a lift for today
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body LogStrengthRequest true "Lift"
// @Success 201 {object} domain.StrengthEntry
// @Failure 400 {object} gin.H "Invalid lift"
// @Router /progress/strength [post]
func (h *ProgressHandler) LogStrength(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req LogStrengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.progressService.LogStrength(c.Request.Context(), userID, service.StrengthLog{
		ExerciseName: req.ExerciseName,
		Weight:       req.Weight,
		Reps:         req.Reps,
		Sets:         req.Sets,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// StrengthHistory godoc
// @Summary Logged lifts, newest first
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.StrengthEntry
// @Router /progress/strength [get]
func (h *ProgressHandler) StrengthHistory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	entries, err := h.progressService.StrengthHistory(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// StrengthRecords godoc
// @Summary Latest estimated one rep max per exercise
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.StrengthRecord
// @Router /progress/strength/records [get]
func (h *ProgressHandler) StrengthRecords(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	records, err := h.progressService.StrengthRecords(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
