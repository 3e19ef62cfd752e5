package models

import (
	"github.com/givebridge/backend/internal/domain/partner"
)

// OrganizationModel is the persistence model for the organizations table
type OrganizationModel struct {
	AggregateModel
	Name                 string `gorm:"type:varchar(200);not null"`
	VirtualAccountBank   string `gorm:"type:varchar(50);index:idx_organizations_account"`
	VirtualAccountNumber string `gorm:"type:varchar(50);index:idx_organizations_account"`
	SettlementCycle      string `gorm:"type:varchar(16);not null;index"`
	ContactEmail         string `gorm:"type:varchar(200)"`
	Active               bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization
func (m *OrganizationModel) ToDomain() *partner.Organization {
	o := &partner.Organization{
		Name: m.Name,
		VirtualAccount: partner.VirtualAccount{
			Bank:   m.VirtualAccountBank,
			Number: m.VirtualAccountNumber,
		},
		SettlementCycle: partner.SettlementCycle(m.SettlementCycle),
		ContactEmail:    m.ContactEmail,
		Active:          m.Active,
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)
	return o
}

// FromDomain populates the persistence model from a domain Organization
func (m *OrganizationModel) FromDomain(o *partner.Organization) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Name = o.Name
	m.VirtualAccountBank = o.VirtualAccount.Bank
	m.VirtualAccountNumber = o.VirtualAccount.Number
	m.SettlementCycle = o.SettlementCycle.String()
	m.ContactEmail = o.ContactEmail
	m.Active = o.Active
}
