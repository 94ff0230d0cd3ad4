package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/payment"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type MembershipHandler struct {
	membershipService service.MembershipService
	verifier          payment.Verifier
}

func NewMembershipHandler(membershipService service.MembershipService, verifier payment.Verifier) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		verifier:          verifier,
	}
}

type CheckoutRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

// VerifyPaymentRequest is the checkout confirmation posted by the client.
// The plan and price are taken from the order; PlanID is only compared.
type VerifyPaymentRequest struct {
	PlanID      string `json:"planId"`
	OrderID     string `json:"orderId" binding:"required"`
	PaymentID   string `json:"paymentId" binding:"required"`
	Signature   string `json:"signature" binding:"required"`
	AmountMinor int64  `json:"amount" binding:"gt=0"`
	Currency    string `json:"currency"`
}

type VerifyPaymentResponse struct {
	Membership *domain.Membership     `json:"membership"`
	State      domain.MembershipState `json:"state"`
}

// Status godoc
// @Summary Current membership state
// @Tags Membership
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.MembershipState
// @Failure 503 {object} gin.H "Store unavailable"
// @Router /membership [get]
func (h *MembershipHandler) Status(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	state, err := h.membershipService.Status(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Events godoc
// @Summary Stream membership state changes
// @Description Server-sent events; one "membership" event now and one after every change.
// @Tags Membership
// @Produce text/event-stream
// @Security BearerAuth
// @Router /membership/events [get]
func (h *MembershipHandler) Events(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	states, err := h.membershipService.Watch(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		state, open := <-states
		if !open {
			return false
		}
		c.SSEvent("membership", state)
		return true
	})
	log.Debugf("membership event stream of %s closed", userID.Hex())
}

// Checkout godoc
// @Summary Open a checkout order for a plan
// @Tags Membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param checkout body CheckoutRequest true "Plan to buy"
// @Success 201 {object} domain.Order
// @Failure 400 {object} gin.H "Invalid input or unknown plan"
// @Router /membership/checkout [post]
func (h *MembershipHandler) Checkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	order, err := h.membershipService.Checkout(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// VerifyPayment godoc
// @Summary Verify a checkout payment and renew the membership
// @Tags Membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment body VerifyPaymentRequest true "Checkout confirmation"
// @Success 200 {object} VerifyPaymentResponse
// @Failure 400 {object} gin.H "Invalid input or payment not matching the order"
// @Failure 401 {object} gin.H "Signature does not match"
// @Failure 404 {object} gin.H "Unknown checkout order"
// @Failure 409 {object} gin.H "Order already paid or concurrent renewal"
// @Router /membership/verify [post]
func (h *MembershipHandler) VerifyPayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	verified, err := h.verifier.Verify(c.Request.Context(), payment.Confirmation{
		UserID:      userID,
		OrderID:     req.OrderID,
		PaymentID:   req.PaymentID,
		Signature:   req.Signature,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
	})
	if err != nil {
		log.WithError(err).Warnf("payment %s of %s failed verification", req.PaymentID, userID.Hex())
		respondServiceError(c, err)
		return
	}

	membership, state, err := h.membershipService.Renew(c.Request.Context(), verified, req.PlanID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, VerifyPaymentResponse{Membership: membership, State: state})
}

// Plans godoc
// @Summary Purchasable membership plans
// @Tags Membership
// @Produce json
// @Success 200 {array} domain.MembershipPlan
// @Router /membership/plans [get]
func (h *MembershipHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, h.membershipService.Plans())
}

// Orders godoc
// @Summary The user's purchase history
// @Tags Membership
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Router /membership/orders [get]
func (h *MembershipHandler) Orders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orders, err := h.membershipService.Orders(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}
