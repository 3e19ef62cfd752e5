package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fulfillmentapp "github.com/givebridge/backend/internal/application/fulfillment"
	settlementapp "github.com/givebridge/backend/internal/application/settlement"
	"github.com/givebridge/backend/internal/domain/fulfillment"
)

// OrderHandler handles marketplace order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService  *fulfillmentapp.OrderService
	paymentLedger *settlementapp.PaymentLedger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *fulfillmentapp.OrderService, paymentLedger *settlementapp.PaymentLedger) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		paymentLedger: paymentLedger,
	}
}

// Create builds an order from a confirmed donation. The order is created in
// PENDING status; placement with the marketplace is a separate step.
func (h *OrderHandler) Create(c *gin.Context) {
	var req fulfillmentapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.CreateOrder(c.Request.Context(), req.DonationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves an order by ID
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves orders with filtering and pagination
func (h *OrderHandler) List(c *gin.Context) {
	var filter fulfillmentapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if raw := c.Query("organization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid organization ID format")
			return
		}
		filter.OrganizationID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := fulfillment.OrderStatus(raw)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown order status: "+raw)
			return
		}
		filter.Status = &status
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Place submits the order to the marketplace
func (h *OrderHandler) Place(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.orderService.PlaceWithMarketplace(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels the order with the marketplace
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req fulfillmentapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.CancelWithMarketplace(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetPayment retrieves the marketplace payment record for an order
func (h *OrderHandler) GetPayment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.paymentLedger.GetByOrderID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
