package donation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/shared"
)

// CreateDonationRequest represents a request to create a donation
type CreateDonationRequest struct {
	DonorID           uuid.UUID       `json:"donor_id" binding:"required"`
	OrganizationID    uuid.UUID       `json:"organization_id" binding:"required"`
	BeneficiaryItemID uuid.UUID       `json:"beneficiary_item_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Message           string          `json:"message" binding:"max=500"`
}

// ConfirmPaymentRequest represents a manual payment confirmation
type ConfirmPaymentRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,min=1,max=100"`
}

// TransitionRequest represents an explicit status transition request
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// DonationListFilter represents filter options for the donation list
type DonationListFilter struct {
	DonorID        *uuid.UUID       `form:"-"`
	OrganizationID *uuid.UUID       `form:"-"`
	Status         *donation.Status `form:"-"`
	Page           int              `form:"page" binding:"min=0"`
	PageSize       int              `form:"page_size" binding:"min=0,max=100"`
	OrderBy        string           `form:"order_by"`
	OrderDir       string           `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DonationResponse represents a donation in API responses
type DonationResponse struct {
	ID                uuid.UUID       `json:"id"`
	DonorID           uuid.UUID       `json:"donor_id"`
	OrganizationID    uuid.UUID       `json:"organization_id"`
	BeneficiaryItemID uuid.UUID       `json:"beneficiary_item_id"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	PaymentCode       string          `json:"payment_code"`
	PaymentReference  string          `json:"payment_reference,omitempty"`
	Message           string          `json:"message,omitempty"`
	SettlementID      *uuid.UUID      `json:"settlement_id,omitempty"`
	ConfirmedAt       *time.Time      `json:"confirmed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToDonationResponse converts a domain donation to its API representation
func ToDonationResponse(d *donation.Donation) DonationResponse {
	return DonationResponse{
		ID:                d.ID,
		DonorID:           d.DonorID,
		OrganizationID:    d.OrganizationID,
		BeneficiaryItemID: d.BeneficiaryItemID,
		Amount:            d.Amount,
		Status:            d.Status.String(),
		PaymentCode:       d.PaymentCode,
		PaymentReference:  d.PaymentReference,
		Message:           d.Message,
		SettlementID:      d.SettlementID,
		ConfirmedAt:       d.ConfirmedAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// ToDonationResponses converts a slice of donations
func ToDonationResponses(items []*donation.Donation) []DonationResponse {
	out := make([]DonationResponse, 0, len(items))
	for _, d := range items {
		out = append(out, ToDonationResponse(d))
	}
	return out
}

// DepositWebhookRequest is the bank push notification payload
type DepositWebhookRequest struct {
	TransactionID string          `json:"transaction_id" binding:"required"`
	Bank          string          `json:"bank" binding:"required"`
	Account       string          `json:"account" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	DepositorName string          `json:"depositor_name"`
	Memo          string          `json:"memo"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Validate checks the webhook payload for required fields. The payload is
// unmarshalled from a raw body after signature verification, so gin's binding
// validation never runs on it.
func (r DepositWebhookRequest) Validate() error {
	if r.TransactionID == "" {
		return shared.NewValidationError("Deposit transaction ID cannot be empty")
	}
	if r.Bank == "" || r.Account == "" {
		return shared.NewValidationError("Deposit bank and account cannot be empty")
	}
	if !r.Amount.IsPositive() {
		return shared.NewValidationError("Deposit amount must be positive")
	}
	return nil
}

// DepositIntakeResult is the acknowledgement returned to the bank
type DepositIntakeResult struct {
	TransactionID  string `json:"transaction_id"`
	OrganizationID string `json:"organization_id,omitempty"`
	Accepted       bool   `json:"accepted"`
	Message        string `json:"message,omitempty"`
}

// UnmatchedListFilter represents pagination options for the unmatched deposit list
type UnmatchedListFilter struct {
	Page     int `form:"page" binding:"min=0"`
	PageSize int `form:"page_size" binding:"min=0,max=100"`
}

// UnmatchedDepositResponse represents an unmatched deposit in API responses
type UnmatchedDepositResponse struct {
	ID             uuid.UUID       `json:"id"`
	TransactionID  string          `json:"transaction_id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Account        string          `json:"account"`
	Amount         decimal.Decimal `json:"amount"`
	DepositorName  string          `json:"depositor_name,omitempty"`
	Memo           string          `json:"memo,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Reason         string          `json:"reason"`
	Resolved       bool            `json:"resolved"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToUnmatchedDepositResponse converts a domain unmatched deposit
func ToUnmatchedDepositResponse(u *donation.UnmatchedDeposit) UnmatchedDepositResponse {
	return UnmatchedDepositResponse{
		ID:             u.ID,
		TransactionID:  u.TransactionID,
		OrganizationID: u.OrganizationID,
		Account:        u.Account,
		Amount:         u.Amount,
		DepositorName:  u.DepositorName,
		Memo:           u.Memo,
		OccurredAt:     u.OccurredAt,
		Reason:         u.Reason,
		Resolved:       u.Resolved,
		ResolvedAt:     u.ResolvedAt,
		CreatedAt:      u.CreatedAt,
	}
}

// ToUnmatchedDepositResponses converts a slice of unmatched deposits
func ToUnmatchedDepositResponses(items []*donation.UnmatchedDeposit) []UnmatchedDepositResponse {
	out := make([]UnmatchedDepositResponse, 0, len(items))
	for _, u := range items {
		out = append(out, ToUnmatchedDepositResponse(u))
	}
	return out
}
