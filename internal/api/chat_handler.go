package api

import (
	"net/http"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatLimitService service.ChatLimitService
}

func NewChatHandler(chatLimitService service.ChatLimitService) *ChatHandler {
	return &ChatHandler{chatLimitService: chatLimitService}
}

type ChatUsageResponse struct {
	Date      string `json:"date"`
	Used      int    `json:"promptsUsed"`
	Limit     int    `json:"dailyLimit"`
	Remaining int    `json:"remaining"`
	CanSend   bool   `json:"canSend"`
}

func mapChatUsage(u domain.ChatUsage) ChatUsageResponse {
	return ChatUsageResponse{
		Date:      u.Date.String(),
		Used:      u.Used,
		Limit:     u.Limit,
		Remaining: u.Remaining(),
		CanSend:   u.CanSend(),
	}
}

// Limits godoc
// @Summary Today's assistant prompt allowance
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ChatUsageResponse
// @Router /chat/limits [get]
func (h *ChatHandler) Limits(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	usage, err := h.chatLimitService.Usage(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapChatUsage(usage))
}

// ConsumePrompt godoc
// @Summary Take one prompt from today's allowance
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ChatUsageResponse
// @Failure 429 {object} gin.H "Daily limit reached"
// @Router /chat/prompts [post]
func (h *ChatHandler) ConsumePrompt(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	usage, err := h.chatLimitService.Consume(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapChatUsage(usage))
}
