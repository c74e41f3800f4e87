package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/domain/order"
	"github.com/commercekit/server/internal/domain/refund"
	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// RefundHandler handles refund HTTP requests.
type RefundHandler struct {
	refunds     refund.Service
	orders      order.Service
	idempotency outbound.IdempotencyPort
	logger      *zap.Logger
}

// NewRefundHandler creates a new refund handler.
func NewRefundHandler(
	refunds refund.Service,
	orders order.Service,
	idempotency outbound.IdempotencyPort,
	logger *zap.Logger,
) *RefundHandler {
	return &RefundHandler{
		refunds:     refunds,
		orders:      orders,
		idempotency: idempotency,
		logger:      logger,
	}
}

// RegisterRoutes registers refund routes.
func (h *RefundHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/refunds/:id/transition", h.Transition)
	r.POST("/refunds/:id/settle", h.Settle)
	r.POST("/refunds/:id/fail", h.Fail)
	r.GET("/refunds/:id/next-states", h.NextStates)
}

type refundTransitionRequest struct {
	OrderID string            `json:"orderId" binding:"required,uuid"`
	State   model.RefundState `json:"state" binding:"required"`
}

// Transition handles POST /refunds/:id/transition.
func (h *RefundHandler) Transition(c *gin.Context) {
	refundID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req refundTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o, ok := h.loadOrder(c, req.OrderID)
	if !ok {
		return
	}
	if !claimIdempotencyKey(c, h.logger, h.idempotency) {
		return
	}

	r, err := h.refunds.TransitionToState(c.Request.Context(), o, refundID, req.State)
	if err != nil {
		releaseIdempotencyKey(c, h.logger, h.idempotency)
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

type refundSettleRequest struct {
	OrderID       string `json:"orderId" binding:"required,uuid"`
	TransactionID string `json:"transactionId"`
}

// Settle handles POST /refunds/:id/settle.
func (h *RefundHandler) Settle(c *gin.Context) {
	refundID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req refundSettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o, ok := h.loadOrder(c, req.OrderID)
	if !ok {
		return
	}
	if !claimIdempotencyKey(c, h.logger, h.idempotency) {
		return
	}

	r, err := h.refunds.SettleRefund(c.Request.Context(), o, refundID, req.TransactionID)
	if err != nil {
		releaseIdempotencyKey(c, h.logger, h.idempotency)
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

type refundFailRequest struct {
	OrderID string `json:"orderId" binding:"required,uuid"`
}

// Fail handles POST /refunds/:id/fail.
func (h *RefundHandler) Fail(c *gin.Context) {
	refundID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req refundFailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o, ok := h.loadOrder(c, req.OrderID)
	if !ok {
		return
	}
	if !claimIdempotencyKey(c, h.logger, h.idempotency) {
		return
	}

	r, err := h.refunds.FailRefund(c.Request.Context(), o, refundID)
	if err != nil {
		releaseIdempotencyKey(c, h.logger, h.idempotency)
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// NextStates handles GET /refunds/:id/next-states.
func (h *RefundHandler) NextStates(c *gin.Context) {
	refundID, ok := parseID(c, "id")
	if !ok {
		return
	}

	states, err := h.refunds.NextStates(c.Request.Context(), refundID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextStates": states})
}

func (h *RefundHandler) loadOrder(c *gin.Context, rawOrderID string) (*model.Order, bool) {
	orderID, err := uuid.Parse(rawOrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid orderId"})
		return nil, false
	}
	o, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		handleError(c, h.logger, err)
		return nil, false
	}
	return o, true
}
