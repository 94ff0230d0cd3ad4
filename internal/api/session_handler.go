package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type StartSessionRequest struct {
	WorkoutName string `json:"workoutName" binding:"required"`
	WorkoutDay  string `json:"workoutDay"`
}

// StartSession godoc
// @Summary Start a workout session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body StartSessionRequest true "Workout to start"
// @Success 201 {object} domain.WorkoutSession
// @Failure 400 {object} gin.H "Invalid input"
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), userID, req.WorkoutName, domain.WorkoutDay(req.WorkoutDay))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// CompleteSession godoc
// @Summary Complete an in-progress session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} domain.WorkoutSession
// @Failure 409 {object} gin.H "Session is not in progress"
// @Router /sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	h.finish(c, h.sessionService.Complete)
}

// CancelSession godoc
// @Summary Cancel an in-progress session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} domain.WorkoutSession
// @Failure 409 {object} gin.H "Session is not in progress"
// @Router /sessions/{id}/cancel [post]
func (h *SessionHandler) CancelSession(c *gin.Context) {
	h.finish(c, h.sessionService.Cancel)
}

type sessionTransition func(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)

func (h *SessionHandler) finish(c *gin.Context, transition sessionTransition) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format.")
		return
	}

	session, err := transition(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListSessions godoc
// @Summary List the user's sessions, newest first
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WorkoutSession
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sessions, err := h.sessionService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if sessions == nil {
		sessions = []domain.WorkoutSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

// ListActiveSessions godoc
// @Summary In-progress sessions with their running timers
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ActiveSession
// @Router /sessions/active [get]
func (h *SessionHandler) ListActiveSessions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	active, err := h.sessionService.ListActive(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, active)
}

// Stats godoc
// @Summary Aggregate statistics of completed sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.SessionStats
// @Failure 402 {object} gin.H "Membership required"
// @Router /sessions/stats [get]
func (h *SessionHandler) Stats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	stats, err := h.sessionService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
