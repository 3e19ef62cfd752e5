package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/settlement"
)

// CreateSettlementRequest represents an explicit settlement creation request
type CreateSettlementRequest struct {
	OrganizationID uuid.UUID   `json:"organization_id" binding:"required"`
	DonationIDs    []uuid.UUID `json:"donation_ids" binding:"required,min=1"`
}

// CompleteSettlementRequest represents a settlement completion request
type CompleteSettlementRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,min=1,max=100"`
}

// SettlementListFilter represents filter options for the settlement list
type SettlementListFilter struct {
	OrganizationID *uuid.UUID         `form:"-"`
	Status         *settlement.Status `form:"-"`
	Page           int                `form:"page" binding:"min=0"`
	PageSize       int                `form:"page_size" binding:"min=0,max=100"`
	OrderBy        string             `form:"order_by"`
	OrderDir       string             `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SettlementResponse represents a settlement in API responses
type SettlementResponse struct {
	ID               uuid.UUID       `json:"id"`
	OrganizationID   uuid.UUID       `json:"organization_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           string          `json:"status"`
	Period           string          `json:"period"`
	DonationCount    int             `json:"donation_count"`
	ScheduledDate    time.Time       `json:"scheduled_date"`
	CompletedDate    *time.Time      `json:"completed_date,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToSettlementResponse converts a domain settlement to its API representation
func ToSettlementResponse(s *settlement.Settlement) SettlementResponse {
	return SettlementResponse{
		ID:               s.ID,
		OrganizationID:   s.OrganizationID,
		TotalAmount:      s.TotalAmount,
		Status:           s.Status.String(),
		Period:           s.Period,
		DonationCount:    s.DonationCount,
		ScheduledDate:    s.ScheduledDate,
		CompletedDate:    s.CompletedDate,
		PaymentReference: s.PaymentReference,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// ToSettlementResponses converts a slice of settlements
func ToSettlementResponses(items []*settlement.Settlement) []SettlementResponse {
	out := make([]SettlementResponse, 0, len(items))
	for _, s := range items {
		out = append(out, ToSettlementResponse(s))
	}
	return out
}

// BatchRunResult summarizes one settlement batch run
type BatchRunResult struct {
	Cycle         string `json:"cycle"`
	Period        string `json:"period"`
	Organizations int    `json:"organizations"`
	Created       int    `json:"created"`
	Skipped       int    `json:"skipped"`
	Failed        int    `json:"failed"`
}

// MarketplacePaymentResponse represents a payment record in API responses
type MarketplacePaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	OrderID          uuid.UUID       `json:"order_id"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	ScheduledDate    time.Time       `json:"scheduled_date"`
	CompletedDate    *time.Time      `json:"completed_date,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
}

// ToMarketplacePaymentResponse converts a payment record
func ToMarketplacePaymentResponse(p *settlement.MarketplacePayment) MarketplacePaymentResponse {
	return MarketplacePaymentResponse{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Amount:           p.Amount,
		Status:           p.Status.String(),
		ScheduledDate:    p.ScheduledDate,
		CompletedDate:    p.CompletedDate,
		PaymentReference: p.PaymentReference,
	}
}
