package api

import (
	"fmt"
	"net/http"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NutritionHandler struct {
	nutritionService service.NutritionService
}

func NewNutritionHandler(nutritionService service.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

type LogMealRequest struct {
	MealDate  string  `json:"mealDate"`
	MealType  string  `json:"mealType"`
	MealName  string  `json:"mealName" binding:"required"`
	FoodItems string  `json:"foodItems" binding:"required"`
	Calories  int     `json:"calories" binding:"required"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
}

// LogMeal godoc
// @Summary Record a meal
// @Tags Nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meal body LogMealRequest true "Meal, date defaults to today"
// @Success 201 {object} domain.MealEntry
// @Failure 400 {object} gin.H "Invalid meal"
// @Router /nutrition/meals [post]
func (h *NutritionHandler) LogMeal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, err := optionalDate(req.MealDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	meal, err := h.nutritionService.LogMeal(c.Request.Context(), userID, service.MealLog{
		Date:      date,
		MealType:  req.MealType,
		MealName:  req.MealName,
		FoodItems: req.FoodItems,
		Calories:  req.Calories,
		Protein:   req.Protein,
		Carbs:     req.Carbs,
		Fat:       req.Fat,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// Day godoc
// @Summary Meals of a date against the daily calorie goal
// @Tags Nutrition
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} domain.DailyNutrition
// @Failure 400 {object} gin.H "Invalid date"
// @Router /nutrition/meals [get]
func (h *NutritionHandler) Day(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	date, err := optionalDate(c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	day, err := h.nutritionService.Day(c.Request.Context(), userID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// DeleteMeal godoc
// @Summary Delete one of the user's meals
// @Tags Nutrition
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Success 204
// @Failure 404 {object} gin.H "Meal not found"
// @Router /nutrition/meals/{id} [delete]
func (h *NutritionHandler) DeleteMeal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid meal ID format.")
		return
	}
	if err := h.nutritionService.DeleteMeal(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Calculate godoc
// @Summary Calculate and store BMR, maintenance and target calories
// @Tags Nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body domain.CalorieInput true "Body details, weight in kg and height in cm"
// @Success 201 {object} domain.CalorieCalculation
// @Failure 400 {object} gin.H "Invalid input"
// @Router /nutrition/calculations [post]
func (h *NutritionHandler) Calculate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var in domain.CalorieInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	calc, err := h.nutritionService.Calculate(c.Request.Context(), userID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, calc)
}

// Calculations godoc
// @Summary Recent calorie calculations, newest first
// @Tags Nutrition
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.CalorieCalculation
// @Router /nutrition/calculations [get]
func (h *NutritionHandler) Calculations(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	calcs, err := h.nutritionService.Calculations(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, calcs)
}
