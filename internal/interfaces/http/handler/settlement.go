package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	settlementapp "github.com/givebridge/backend/internal/application/settlement"
	"github.com/givebridge/backend/internal/domain/settlement"
	"github.com/givebridge/backend/internal/domain/shared"
)

// SettlementHandler handles settlement batch API endpoints
type SettlementHandler struct {
	BaseHandler
	batchService      *settlementapp.BatchService
	completionService *settlementapp.CompletionService
	paymentLedger     *settlementapp.PaymentLedger
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(
	batchService *settlementapp.BatchService,
	completionService *settlementapp.CompletionService,
	paymentLedger *settlementapp.PaymentLedger,
) *SettlementHandler {
	return &SettlementHandler{
		batchService:      batchService,
		completionService: completionService,
		paymentLedger:     paymentLedger,
	}
}

// Create opens a settlement batch for an explicit set of donations.
// The scheduled batch runs are the normal path; this endpoint covers
// operator-driven settlements.
func (h *SettlementHandler) Create(c *gin.Context) {
	var req settlementapp.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.batchService.CreateSettlement(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a settlement by ID
func (h *SettlementHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid settlement ID format")
		return
	}

	resp, err := h.completionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves settlements with filtering and pagination
func (h *SettlementHandler) List(c *gin.Context) {
	var filter settlementapp.SettlementListFilter
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
		status := settlement.Status(raw)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown settlement status: "+raw)
			return
		}
		filter.Status = &status
	}

	page, err := h.completionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Complete records the bank transfer for a settlement and closes it out
func (h *SettlementHandler) Complete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid settlement ID format")
		return
	}

	var req settlementapp.CompleteSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.completionService.CompleteSettlement(c.Request.Context(), id, req.PaymentReference)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RunWeekly triggers the weekly settlement batch on demand
func (h *SettlementHandler) RunWeekly(c *gin.Context) {
	result, err := h.batchService.RunWeekly(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// RunMonthly triggers the monthly settlement batch on demand
func (h *SettlementHandler) RunMonthly(c *gin.Context) {
	result, err := h.batchService.RunMonthly(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ListPayments retrieves marketplace payment records by status
func (h *SettlementHandler) ListPayments(c *gin.Context) {
	raw := c.DefaultQuery("status", settlement.PaymentStatusPending.String())
	status := settlement.PaymentStatus(raw)
	if !status.IsValid() {
		h.BadRequest(c, "Unknown payment status: "+raw)
		return
	}

	filter := shared.DefaultFilter()
	var listReq struct {
		Page     int `form:"page" binding:"min=0"`
		PageSize int `form:"page_size" binding:"min=0,max=100"`
	}
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if listReq.Page > 0 {
		filter.Page = listReq.Page
	}
	if listReq.PageSize > 0 {
		filter.PageSize = listReq.PageSize
	}

	page, err := h.paymentLedger.ListByStatus(c.Request.Context(), status, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
