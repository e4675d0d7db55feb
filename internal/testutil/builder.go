package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
)

// PropertyBuilder provides a fluent interface for constructing test
// properties.
type PropertyBuilder struct {
	property model.Property
}

// NewPropertyBuilder starts a single-family property with no tenants.
func NewPropertyBuilder(id, name string) *PropertyBuilder {
	return &PropertyBuilder{property: model.Property{
		ID:   id,
		Name: name,
		Type: model.PropertyTypeSingleFamily,
	}}
}

// MultiFamily marks the property as multi-unit.
func (b *PropertyBuilder) MultiFamily() *PropertyBuilder {
	b.property.Type = model.PropertyTypeMultiFamily
	return b
}

// WithMortgage attaches a mortgage with the given monthly principal and
// interest and escrow.
func (b *PropertyBuilder) WithMortgage(principalAndInterest, escrow float64) *PropertyBuilder {
	b.property.Mortgage = &model.Mortgage{
		HasMortgage:          true,
		PrincipalAndInterest: principalAndInterest,
		EscrowAmount:         escrow,
	}
	return b
}

// WithTargetRent sets the property's configured rent.
func (b *PropertyBuilder) WithTargetRent(amount float64) *PropertyBuilder {
	b.property.TargetRent = amount
	return b
}

// WithTenant attaches a tenant directly to the property.
func (b *PropertyBuilder) WithTenant(tenant model.Tenant) *PropertyBuilder {
	tenant.PropertyID = b.property.ID
	b.property.Tenants = append(b.property.Tenants, tenant)
	return b
}

// WithUnit adds a unit holding the given tenants.
func (b *PropertyBuilder) WithUnit(id, name string, tenants ...model.Tenant) *PropertyBuilder {
	unit := model.Unit{ID: id, PropertyID: b.property.ID, Name: name}
	for _, tenant := range tenants {
		tenant.PropertyID = b.property.ID
		tenant.UnitID = id
		unit.Tenants = append(unit.Tenants, tenant)
	}
	b.property.Units = append(b.property.Units, unit)
	return b
}

// Build returns the constructed property.
func (b *PropertyBuilder) Build() model.Property {
	return b.property
}

// Tenant returns a lease from start to end ("2006-01-02") whose rent history
// holds a single entry effective at the lease start.
func Tenant(id string, rent float64, start, end string) model.Tenant {
	return model.Tenant{
		ID:          id,
		Name:        "Tenant " + id,
		LeaseStart:  start,
		LeaseEnd:    end,
		RentHistory: []model.RentHistoryEntry{{Amount: rent, EffectiveDate: start}},
	}
}

// Income returns a rent deposit into costCenter.
func Income(costCenter string, date time.Time, amount float64) model.Transaction {
	return model.Transaction{
		ID:         fmt.Sprintf("%s-in-%s-%.0f", costCenter, date.Format("20060102"), amount),
		Date:       date,
		Amount:     amount,
		CostCenter: costCenter,
		Category:   model.CategoryHierarchy{L0: "Income", L1: "Rent"},
	}
}

// Expense returns an operating expense charged to costCenter. amount is
// positive; the stored transaction is an outflow.
func Expense(costCenter string, date time.Time, amount float64, l1 string) model.Transaction {
	return model.Transaction{
		ID:         fmt.Sprintf("%s-out-%s-%.0f", costCenter, date.Format("20060102"), amount),
		Date:       date,
		Amount:     -amount,
		CostCenter: costCenter,
		Category:   model.CategoryHierarchy{L0: "Operating Expenses", L1: l1},
	}
}
