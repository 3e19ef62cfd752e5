package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/settlement"
)

// SettlementModel is the persistence model for the settlements table
type SettlementModel struct {
	AggregateModel
	OrganizationID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_settlements_org_period,unique"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Status           string          `gorm:"type:varchar(32);not null;index"`
	Period           string          `gorm:"type:varchar(32);not null;index:idx_settlements_org_period,unique"`
	ScheduledDate    time.Time       `gorm:"not null"`
	CompletedDate    *time.Time
	PaymentReference string `gorm:"type:varchar(100)"`
	DonationCount    int    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettlementModel) TableName() string {
	return "settlements"
}

// ToDomain converts the persistence model to a domain Settlement
func (m *SettlementModel) ToDomain() *settlement.Settlement {
	s := &settlement.Settlement{
		OrganizationID:   m.OrganizationID,
		TotalAmount:      m.TotalAmount,
		Status:           settlement.Status(m.Status),
		Period:           m.Period,
		ScheduledDate:    m.ScheduledDate,
		CompletedDate:    m.CompletedDate,
		PaymentReference: m.PaymentReference,
		DonationCount:    m.DonationCount,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Settlement
func (m *SettlementModel) FromDomain(s *settlement.Settlement) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.OrganizationID = s.OrganizationID
	m.TotalAmount = s.TotalAmount
	m.Status = s.Status.String()
	m.Period = s.Period
	m.ScheduledDate = s.ScheduledDate
	m.CompletedDate = s.CompletedDate
	m.PaymentReference = s.PaymentReference
	m.DonationCount = s.DonationCount
}

// MarketplacePaymentModel is the persistence model for the marketplace_payments table
type MarketplacePaymentModel struct {
	AggregateModel
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Amount           decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Status           string          `gorm:"type:varchar(32);not null;index"`
	ScheduledDate    time.Time       `gorm:"not null"`
	CompletedDate    *time.Time
	PaymentReference string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (MarketplacePaymentModel) TableName() string {
	return "marketplace_payments"
}

// ToDomain converts the persistence model to a domain MarketplacePayment
func (m *MarketplacePaymentModel) ToDomain() *settlement.MarketplacePayment {
	p := &settlement.MarketplacePayment{
		OrderID:          m.OrderID,
		Amount:           m.Amount,
		Status:           settlement.PaymentStatus(m.Status),
		ScheduledDate:    m.ScheduledDate,
		CompletedDate:    m.CompletedDate,
		PaymentReference: m.PaymentReference,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain MarketplacePayment
func (m *MarketplacePaymentModel) FromDomain(p *settlement.MarketplacePayment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.OrderID = p.OrderID
	m.Amount = p.Amount
	m.Status = p.Status.String()
	m.ScheduledDate = p.ScheduledDate
	m.CompletedDate = p.CompletedDate
	m.PaymentReference = p.PaymentReference
}
