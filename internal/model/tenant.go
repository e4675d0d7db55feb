package model

// Tenant is a lease holder on a property or unit. Lease bounds and the legacy
// scalar rent fields are kept raw because historical records store them in
// several shapes.
type Tenant struct {
	LeaseStart  any                `json:"leaseStart,omitempty"`
	LeaseEnd    any                `json:"leaseEnd,omitempty"`
	RentAmount  any                `json:"rentAmount,omitempty"`
	Rent        any                `json:"rent,omitempty"`
	MonthlyRent any                `json:"monthlyRent,omitempty"`
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	PropertyID  string             `json:"propertyId,omitempty"`
	UnitID      string             `json:"unitId,omitempty"`
	RentHistory []RentHistoryEntry `json:"rentHistory,omitempty"`
}

// RentHistoryEntry records a rent amount that applies from EffectiveDate onward.
type RentHistoryEntry struct {
	Amount        any `json:"amount"`
	EffectiveDate any `json:"effectiveDate"`
}

// Timestamp is the epoch-seconds object some stored dates use.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds,omitempty"`
}
