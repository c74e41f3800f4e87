package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/domain/order"
	"github.com/commercekit/server/internal/domain/payment"
	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// PaymentHandler handles payment HTTP requests.
type PaymentHandler struct {
	payments    payment.Service
	orders      order.Service
	idempotency outbound.IdempotencyPort
	logger      *zap.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(
	payments payment.Service,
	orders order.Service,
	idempotency outbound.IdempotencyPort,
	logger *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		payments:    payments,
		orders:      orders,
		idempotency: idempotency,
		logger:      logger,
	}
}

// RegisterRoutes registers payment routes.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/orders/:id/payments", h.AddPayment)
	r.POST("/payments/:id/transition", h.Transition)
	r.POST("/payments/:id/settle", h.Settle)
	r.POST("/payments/:id/refund", h.Refund)
	r.GET("/payments/:id/next-states", h.NextStates)
}

type addPaymentRequest struct {
	Method   string            `json:"method" binding:"required"`
	Metadata map[string]string `json:"metadata"`
}

// AddPayment handles POST /orders/:id/payments.
func (h *PaymentHandler) AddPayment(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req addPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !claimIdempotencyKey(c, h.logger, h.idempotency) {
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		releaseIdempotencyKey(c, h.logger, h.idempotency)
		handleError(c, h.logger, err)
		return
	}
	p, err := h.payments.AddPaymentToOrder(c.Request.Context(), o, req.Method, req.Metadata)
	if err != nil {
		releaseIdempotencyKey(c, h.logger, h.idempotency)
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type paymentTransitionRequest struct {
	OrderID string             `json:"orderId" binding:"required,uuid"`
	State   model.PaymentState `json:"state" binding:"required"`
}

// Transition handles POST /payments/:id/transition.
func (h *PaymentHandler) Transition(c *gin.Context) {
	paymentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req paymentTransitionRequest
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

	p, err := h.payments.TransitionToState(c.Request.Context(), o, paymentID, req.State)
	if err != nil {
		releaseIdempotencyKey(c, h.logger, h.idempotency)
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type paymentOrderRequest struct {
	OrderID string `json:"orderId" binding:"required,uuid"`
}

// Settle handles POST /payments/:id/settle.
func (h *PaymentHandler) Settle(c *gin.Context) {
	paymentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req paymentOrderRequest
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

	p, err := h.payments.SettlePayment(c.Request.Context(), o, paymentID)
	if err != nil {
		releaseIdempotencyKey(c, h.logger, h.idempotency)
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type refundRequest struct {
	OrderID string `json:"orderId" binding:"required,uuid"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	Reason  string `json:"reason"`
}

// Refund handles POST /payments/:id/refund.
func (h *PaymentHandler) Refund(c *gin.Context) {
	paymentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req refundRequest
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

	r, err := h.payments.CreateRefund(c.Request.Context(), o, paymentID, req.Amount, req.Reason)
	if err != nil {
		releaseIdempotencyKey(c, h.logger, h.idempotency)
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// NextStates handles GET /payments/:id/next-states.
func (h *PaymentHandler) NextStates(c *gin.Context) {
	paymentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	states, err := h.payments.NextStates(c.Request.Context(), paymentID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextStates": states})
}

func (h *PaymentHandler) loadOrder(c *gin.Context, rawOrderID string) (*model.Order, bool) {
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
