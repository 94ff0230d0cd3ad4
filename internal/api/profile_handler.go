package api

import (
	"fmt"
	"net/http"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type SaveProfileRequest struct {
	Age              int      `json:"age"`
	Gender           string   `json:"gender"`
	Height           float64  `json:"height"`
	Weight           float64  `json:"weight"`
	ActivityLevel    string   `json:"activityLevel"`
	Goal             string   `json:"goal"`
	DietPreferences  []string `json:"dietPreferences"`
	DailyCalorieGoal int      `json:"dailyCalorieGoal"`
}

// GetProfile godoc
// @Summary The user's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.UserProfile
// @Failure 404 {object} gin.H "No profile saved yet"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveProfile godoc
// @Summary Replace the user's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body SaveProfileRequest true "Profile"
// @Success 200 {object} domain.UserProfile
// @Failure 400 {object} gin.H "Invalid profile"
// @Router /profile [put]
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.profileService.Save(c.Request.Context(), userID, domain.UserProfile{
		Age:              req.Age,
		Gender:           req.Gender,
		Height:           req.Height,
		Weight:           req.Weight,
		ActivityLevel:    req.ActivityLevel,
		Goal:             req.Goal,
		DietPreferences:  req.DietPreferences,
		DailyCalorieGoal: req.DailyCalorieGoal,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
