package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	partnerapp "github.com/givebridge/backend/internal/application/partner"
	"github.com/givebridge/backend/internal/domain/partner"
)

// OrganizationHandler handles partner organization API endpoints
type OrganizationHandler struct {
	BaseHandler
	orgService *partnerapp.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService *partnerapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// Create registers a new partner organization
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req partnerapp.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orgService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves an organization by ID
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	resp, err := h.orgService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves organizations with filtering and pagination
func (h *OrganizationHandler) List(c *gin.Context) {
	var filter partnerapp.OrganizationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if raw := c.Query("settlement_cycle"); raw != "" {
		cycle := partner.SettlementCycle(raw)
		if !cycle.IsValid() {
			h.BadRequest(c, "Unknown settlement cycle: "+raw)
			return
		}
		filter.Cycle = &cycle
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "Invalid active flag")
			return
		}
		filter.Active = &active
	}

	page, err := h.orgService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AssignAccount sets the virtual deposit account for an organization
func (h *OrganizationHandler) AssignAccount(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	var req partnerapp.AssignAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orgService.AssignVirtualAccount(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ChangeCycle switches an organization between settlement schedules
func (h *OrganizationHandler) ChangeCycle(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	var req partnerapp.ChangeCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orgService.ChangeSettlementCycle(c.Request.Context(), id, partner.SettlementCycle(req.SettlementCycle))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Activate returns an organization to batch schedules and deposit matching
func (h *OrganizationHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	resp, err := h.orgService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate removes an organization from batch schedules
func (h *OrganizationHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	resp, err := h.orgService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
