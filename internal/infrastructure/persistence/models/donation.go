package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/donation"
)

// DonationModel is the persistence model for the donations table
type DonationModel struct {
	AggregateModel
	BeneficiaryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	DonorID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrganizationID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Status            string          `gorm:"type:varchar(32);not null;index"`
	PaymentCode       string          `gorm:"type:varchar(16);not null"`
	PaymentReference  string          `gorm:"type:varchar(100)"`
	Message           string          `gorm:"type:text"`
	SettlementID      *uuid.UUID      `gorm:"type:uuid;index"`
	ConfirmedAt       *time.Time
}

// TableName returns the table name for GORM
func (DonationModel) TableName() string {
	return "donations"
}

// ToDomain converts the persistence model to a domain Donation
func (m *DonationModel) ToDomain() *donation.Donation {
	d := &donation.Donation{
		BeneficiaryItemID: m.BeneficiaryItemID,
		DonorID:           m.DonorID,
		OrganizationID:    m.OrganizationID,
		Amount:            m.Amount,
		Status:            donation.Status(m.Status),
		PaymentCode:       m.PaymentCode,
		PaymentReference:  m.PaymentReference,
		Message:           m.Message,
		SettlementID:      m.SettlementID,
		ConfirmedAt:       m.ConfirmedAt,
	}
	m.PopulateAggregateRoot(&d.BaseAggregateRoot)
	return d
}

// FromDomain populates the persistence model from a domain Donation
func (m *DonationModel) FromDomain(d *donation.Donation) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.BeneficiaryItemID = d.BeneficiaryItemID
	m.DonorID = d.DonorID
	m.OrganizationID = d.OrganizationID
	m.Amount = d.Amount
	m.Status = d.Status.String()
	m.PaymentCode = d.PaymentCode
	m.PaymentReference = d.PaymentReference
	m.Message = d.Message
	m.SettlementID = d.SettlementID
	m.ConfirmedAt = d.ConfirmedAt
}

// UnmatchedDepositModel is the persistence model for the unmatched_deposits table
type UnmatchedDepositModel struct {
	BaseModel
	TransactionID  string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Account        string          `gorm:"type:varchar(100)"`
	Amount         decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	DepositorName  string          `gorm:"type:varchar(100)"`
	Memo           string          `gorm:"type:varchar(200)"`
	OccurredAt     time.Time       `gorm:"not null"`
	Reason         string          `gorm:"type:varchar(200)"`
	Resolved       bool            `gorm:"not null;default:false;index"`
	ResolvedAt     *time.Time
}

// TableName returns the table name for GORM
func (UnmatchedDepositModel) TableName() string {
	return "unmatched_deposits"
}

// ToDomain converts the persistence model to a domain UnmatchedDeposit
func (m *UnmatchedDepositModel) ToDomain() *donation.UnmatchedDeposit {
	return &donation.UnmatchedDeposit{
		BaseEntity:     m.BaseModel.ToDomain(),
		TransactionID:  m.TransactionID,
		OrganizationID: m.OrganizationID,
		Account:        m.Account,
		Amount:         m.Amount,
		DepositorName:  m.DepositorName,
		Memo:           m.Memo,
		OccurredAt:     m.OccurredAt,
		Reason:         m.Reason,
		Resolved:       m.Resolved,
		ResolvedAt:     m.ResolvedAt,
	}
}

// FromDomain populates the persistence model from a domain UnmatchedDeposit
func (m *UnmatchedDepositModel) FromDomain(u *donation.UnmatchedDeposit) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.TransactionID = u.TransactionID
	m.OrganizationID = u.OrganizationID
	m.Account = u.Account
	m.Amount = u.Amount
	m.DepositorName = u.DepositorName
	m.Memo = u.Memo
	m.OccurredAt = u.OccurredAt
	m.Reason = u.Reason
	m.Resolved = u.Resolved
	m.ResolvedAt = u.ResolvedAt
}
