package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/givebridge/backend/internal/domain/partner"
)

// CreateOrganizationRequest represents a request to register an organization
type CreateOrganizationRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=200"`
	ContactEmail    string `json:"contact_email" binding:"omitempty,email"`
	SettlementCycle string `json:"settlement_cycle" binding:"required,oneof=WEEKLY MONTHLY"`
}

// AssignAccountRequest represents a virtual account assignment
type AssignAccountRequest struct {
	Bank   string `json:"bank" binding:"required,min=1,max=50"`
	Number string `json:"number" binding:"required,min=1,max=50"`
}

// ChangeCycleRequest represents a settlement cycle change
type ChangeCycleRequest struct {
	SettlementCycle string `json:"settlement_cycle" binding:"required,oneof=WEEKLY MONTHLY"`
}

// OrganizationListFilter represents filter options for the organization list
type OrganizationListFilter struct {
	Cycle    *partner.SettlementCycle `form:"-"`
	Active   *bool                    `form:"-"`
	Page     int                      `form:"page" binding:"min=0"`
	PageSize int                      `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string                   `form:"order_by"`
	OrderDir string                   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrganizationResponse represents an organization in API responses
type OrganizationResponse struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	VirtualAccountBank   string    `json:"virtual_account_bank,omitempty"`
	VirtualAccountNumber string    `json:"virtual_account_number,omitempty"`
	SettlementCycle      string    `json:"settlement_cycle"`
	ContactEmail         string    `json:"contact_email,omitempty"`
	Active               bool      `json:"active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ToOrganizationResponse converts a domain organization to its API representation
func ToOrganizationResponse(o *partner.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:                   o.ID,
		Name:                 o.Name,
		VirtualAccountBank:   o.VirtualAccount.Bank,
		VirtualAccountNumber: o.VirtualAccount.Number,
		SettlementCycle:      o.SettlementCycle.String(),
		ContactEmail:         o.ContactEmail,
		Active:               o.Active,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// ToOrganizationResponses converts a slice of organizations
func ToOrganizationResponses(items []*partner.Organization) []OrganizationResponse {
	out := make([]OrganizationResponse, 0, len(items))
	for _, o := range items {
		out = append(out, ToOrganizationResponse(o))
	}
	return out
}
