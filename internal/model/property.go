// Package model defines the records read by the rent and performance engine.
package model

// PropertyType describes how a property is occupied and billed.
type PropertyType string

const (
	// PropertyTypeSingleFamily is a detached house leased as a whole.
	PropertyTypeSingleFamily PropertyType = "single-family"
	// PropertyTypeCondo is a single condominium leased as a whole.
	PropertyTypeCondo PropertyType = "condo"
	// PropertyTypeMultiFamily is a residential building split into units.
	PropertyTypeMultiFamily PropertyType = "multi-family"
	// PropertyTypeCommercial is a commercial building split into units.
	PropertyTypeCommercial PropertyType = "commercial"
	// PropertyTypeOffice is an office building split into units.
	PropertyTypeOffice PropertyType = "office"
)

// HasUnits reports whether tenants of this property type are normally attached to units.
func (t PropertyType) HasUnits() bool {
	switch t {
	case PropertyTypeMultiFamily, PropertyTypeCommercial, PropertyTypeOffice:
		return true
	default:
		return false
	}
}

// Mortgage holds the loan configuration of a property. Numeric and date fields
// keep whatever shape they were stored in; see package normalize.
type Mortgage struct {
	PrincipalAndInterest any  `json:"principalAndInterest,omitempty"`
	EscrowAmount         any  `json:"escrowAmount,omitempty"`
	OriginalLoanAmount   any  `json:"originalLoanAmount,omitempty"`
	InterestRate         any  `json:"interestRate,omitempty"`
	PurchaseDate         any  `json:"purchaseDate,omitempty"`
	LoanTermYears        any  `json:"loanTermYears,omitempty"`
	HasMortgage          bool `json:"hasMortgage"`
}

// Financials holds scalar rent fallbacks configured on a property or unit.
type Financials struct {
	Rent       any `json:"rent,omitempty"`
	TargetRent any `json:"targetRent,omitempty"`
}

// Property is a rentable asset. Single-family and condo properties own tenants
// directly; multi-unit properties own them through units.
type Property struct {
	Mortgage   *Mortgage    `json:"mortgage,omitempty"`
	Financials *Financials  `json:"financials,omitempty"`
	TargetRent any          `json:"targetRent,omitempty"`
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       PropertyType `json:"propertyType"`
	Tenants    []Tenant     `json:"tenants,omitempty"`
	Units      []Unit       `json:"units,omitempty"`
}

// AllTenants returns every tenant attached to the property, directly or via a unit.
func (p *Property) AllTenants() []Tenant {
	if p == nil {
		return nil
	}
	tenants := make([]Tenant, 0, len(p.Tenants))
	tenants = append(tenants, p.Tenants...)
	for _, u := range p.Units {
		tenants = append(tenants, u.Tenants...)
	}
	return tenants
}

// Unit is a separately leased space inside a property.
type Unit struct {
	Financials *Financials `json:"financials,omitempty"`
	TargetRent any         `json:"targetRent,omitempty"`
	ID         string      `json:"id"`
	PropertyID string      `json:"propertyId"`
	Name       string      `json:"name"`
	Tenants    []Tenant    `json:"tenants,omitempty"`
}
