package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/domain/order"
	"github.com/commercekit/server/internal/domain/promotion"
	"github.com/commercekit/server/internal/domain/shipping"
	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// OrderHandler handles order HTTP requests.
type OrderHandler struct {
	orders      order.Service
	shipping    shipping.Service
	promotions  *promotion.Evaluator
	idempotency outbound.IdempotencyPort
	logger      *zap.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(
	orders order.Service,
	shippingSvc shipping.Service,
	promotions *promotion.Evaluator,
	idempotency outbound.IdempotencyPort,
	logger *zap.Logger,
) *OrderHandler {
	return &OrderHandler{
		orders:      orders,
		shipping:    shippingSvc,
		promotions:  promotions,
		idempotency: idempotency,
		logger:      logger,
	}
}

// RegisterRoutes registers order routes.
func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/orders/:id", h.GetOrder)
	r.GET("/orders/:id/next-states", h.NextStates)
	r.POST("/orders/:id/transition", h.Transition)
	r.GET("/orders/:id/shipping-quotes", h.ShippingQuotes)
	r.GET("/orders/:id/promotion-adjustments", h.PromotionAdjustments)
	r.POST("/orders/merge", h.Merge)
}

// GetOrder handles GET /orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// NextStates handles GET /orders/:id/next-states.
func (h *OrderHandler) NextStates(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	states, err := h.orders.NextStates(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextStates": states})
}

type orderTransitionRequest struct {
	State model.OrderState `json:"state" binding:"required"`
}

// Transition handles POST /orders/:id/transition.
func (h *OrderHandler) Transition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req orderTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !claimIdempotencyKey(c, h.logger, h.idempotency) {
		return
	}

	o, err := h.orders.TransitionToState(c.Request.Context(), id, req.State)
	if err != nil {
		releaseIdempotencyKey(c, h.logger, h.idempotency)
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// ShippingQuotes handles GET /orders/:id/shipping-quotes.
func (h *OrderHandler) ShippingQuotes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	quotes, err := h.shipping.GetEligibleShippingMethods(c.Request.Context(), o)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

// PromotionAdjustments handles GET /orders/:id/promotion-adjustments.
func (h *OrderHandler) PromotionAdjustments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	adjustments, err := h.promotions.ApplyActive(c.Request.Context(), o)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"adjustments": adjustments})
}

type mergeRequest struct {
	GuestOrderID uuid.UUID `json:"guestOrderId" binding:"required"`
	CustomerID   uuid.UUID `json:"customerId" binding:"required"`
}

// Merge handles POST /orders/merge.
func (h *OrderHandler) Merge(c *gin.Context) {
	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !claimIdempotencyKey(c, h.logger, h.idempotency) {
		return
	}

	o, err := h.orders.MergeWithExisting(c.Request.Context(), req.GuestOrderID, req.CustomerID)
	if err != nil {
		releaseIdempotencyKey(c, h.logger, h.idempotency)
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
