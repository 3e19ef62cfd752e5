package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	donationapp "github.com/givebridge/backend/internal/application/donation"
	"github.com/givebridge/backend/internal/domain/donation"
)

// DonationHandler handles donation ledger API endpoints
type DonationHandler struct {
	BaseHandler
	donationService *donationapp.Service
}

// NewDonationHandler creates a new DonationHandler
func NewDonationHandler(donationService *donationapp.Service) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
	}
}

// Create registers a new donation in PENDING status
func (h *DonationHandler) Create(c *gin.Context) {
	var req donationapp.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.donationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a donation by ID
func (h *DonationHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid donation ID format")
		return
	}

	resp, err := h.donationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves donations with filtering and pagination
func (h *DonationHandler) List(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	page, err := h.donationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ConfirmPayment manually confirms a donation's payment with a bank reference.
// The normal path is the deposit matcher; this endpoint covers deposits
// resolved by an operator.
func (h *DonationHandler) ConfirmPayment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid donation ID format")
		return
	}

	var req donationapp.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.donationService.ConfirmPayment(c.Request.Context(), id, req.PaymentReference)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Transition moves a donation to the target status through the transition table
func (h *DonationHandler) Transition(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid donation ID format")
		return
	}

	var req donationapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	target := donation.Status(req.Status)
	if !target.IsValid() {
		h.BadRequest(c, "Unknown donation status: "+req.Status)
		return
	}

	resp, err := h.donationService.Transition(c.Request.Context(), id, target)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels a PENDING donation
func (h *DonationHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid donation ID format")
		return
	}

	resp, err := h.donationService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// bindListFilter parses list query parameters, reporting false after it has
// already written a 400 response
func (h *DonationHandler) bindListFilter(c *gin.Context) (donationapp.DonationListFilter, bool) {
	var filter donationapp.DonationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return filter, false
	}

	if raw := c.Query("donor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid donor ID format")
			return filter, false
		}
		filter.DonorID = &id
	}
	if raw := c.Query("organization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid organization ID format")
			return filter, false
		}
		filter.OrganizationID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := donation.Status(raw)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown donation status: "+raw)
			return filter, false
		}
		filter.Status = &status
	}

	return filter, true
}
