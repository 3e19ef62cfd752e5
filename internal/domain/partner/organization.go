package partner

import (
	"strings"

	"github.com/givebridge/backend/internal/domain/shared"
)

// SettlementCycle determines which batch schedule settles an organization
type SettlementCycle string

const (
	CycleWeekly  SettlementCycle = "WEEKLY"
	CycleMonthly SettlementCycle = "MONTHLY"
)

// IsValid checks if the cycle is a valid SettlementCycle
func (c SettlementCycle) IsValid() bool {
	return c == CycleWeekly || c == CycleMonthly
}

// String returns the string representation of SettlementCycle
func (c SettlementCycle) String() string {
	return string(c)
}

// VirtualAccount is the bank account assigned to an organization for donor
// deposits. Bank and number together identify the account in deposit feeds.
type VirtualAccount struct {
	Bank   string
	Number string
}

// IsZero reports whether no account is assigned
func (a VirtualAccount) IsZero() bool {
	return a.Bank == "" && a.Number == ""
}

// String returns "bank number", the format deposit feeds use
func (a VirtualAccount) String() string {
	return strings.TrimSpace(a.Bank + " " + a.Number)
}

// Organization represents a partner organization that cares for beneficiaries
// and receives settled donation funds.
type Organization struct {
	shared.BaseAggregateRoot
	Name            string
	VirtualAccount  VirtualAccount
	SettlementCycle SettlementCycle
	ContactEmail    string
	Active          bool
}

// NewOrganization registers a new partner organization
func NewOrganization(name, contactEmail string, cycle SettlementCycle) (*Organization, error) {
	if name == "" {
		return nil, shared.NewValidationError("Organization name cannot be empty")
	}
	if !cycle.IsValid() {
		return nil, shared.NewValidationError("Settlement cycle must be WEEKLY or MONTHLY")
	}

	return &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ContactEmail:      contactEmail,
		SettlementCycle:   cycle,
		Active:            true,
	}, nil
}

// AssignVirtualAccount sets the deposit account for the organization
func (o *Organization) AssignVirtualAccount(bank, number string) error {
	if bank == "" || number == "" {
		return shared.NewValidationError("Virtual account bank and number cannot be empty")
	}

	o.VirtualAccount = VirtualAccount{Bank: bank, Number: number}
	o.Touch()

	return nil
}

// ChangeSettlementCycle switches the organization to another batch schedule
func (o *Organization) ChangeSettlementCycle(cycle SettlementCycle) error {
	if !cycle.IsValid() {
		return shared.NewValidationError("Settlement cycle must be WEEKLY or MONTHLY")
	}

	o.SettlementCycle = cycle
	o.Touch()

	return nil
}

// Deactivate removes the organization from batch schedules and deposit matching
func (o *Organization) Deactivate() {
	o.Active = false
	o.Touch()
}

// Activate returns the organization to batch schedules
func (o *Organization) Activate() {
	o.Active = true
	o.Touch()
}
