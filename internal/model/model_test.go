package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_GenerateHash(t *testing.T) {
	base := Transaction{
		ID:            "a",
		Date:          time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		Amount:        -125,
		Description:   "CITY WATER",
		BankAccountID: "1234",
		CostCenter:    "maple",
	}

	sameDay := base
	sameDay.ID = "b"
	sameDay.Date = base.Date.Add(6 * time.Hour)
	assert.Equal(t, base.GenerateHash(), sameDay.GenerateHash(), "ID and time of day are ignored")

	otherUnit := base
	otherUnit.CostCenter = "maple-a"
	assert.NotEqual(t, base.GenerateHash(), otherUnit.GenerateHash())

	otherAmount := base
	otherAmount.Amount = -126
	assert.NotEqual(t, base.GenerateHash(), otherAmount.GenerateHash())

	assert.Len(t, base.GenerateHash(), 64)
}

func TestPropertyType_HasUnits(t *testing.T) {
	tests := []struct {
		kind PropertyType
		want bool
	}{
		{PropertyTypeSingleFamily, false},
		{PropertyTypeCondo, false},
		{PropertyTypeMultiFamily, true},
		{PropertyTypeCommercial, true},
		{PropertyTypeOffice, true},
		{PropertyType(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HasUnits())
		})
	}
}

func TestProperty_AllTenants(t *testing.T) {
	p := &Property{
		Tenants: []Tenant{{ID: "direct"}},
		Units: []Unit{
			{ID: "a", Tenants: []Tenant{{ID: "a-1"}, {ID: "a-2"}}},
			{ID: "b"},
		},
	}

	var ids []string
	for _, tenant := range p.AllTenants() {
		ids = append(ids, tenant.ID)
	}
	assert.Equal(t, []string{"direct", "a-1", "a-2"}, ids)

	var nilProperty *Property
	assert.Nil(t, nilProperty.AllTenants())
}
