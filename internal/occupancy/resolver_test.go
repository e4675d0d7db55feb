package occupancy

import (
	"testing"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 15, 0, 0, 0, 0, time.UTC)
}

func TestTenantForMonth_Turnover(t *testing.T) {
	tenants := []model.Tenant{
		{ID: "t-1", Name: "Outgoing", LeaseStart: "2024-03-01", LeaseEnd: "2024-08-31"},
		{ID: "t-2", Name: "Incoming", LeaseStart: "2024-08-01", LeaseEnd: "2025-01-31"},
	}

	tests := []struct {
		date   time.Time
		name   string
		wantID string
	}{
		{name: "before any lease", date: month(2024, time.February), wantID: ""},
		{name: "only first lease", date: month(2024, time.July), wantID: "t-1"},
		{name: "overlap picks later start", date: month(2024, time.August), wantID: "t-2"},
		{name: "only second lease", date: month(2024, time.December), wantID: "t-2"},
		{name: "after all leases", date: month(2025, time.March), wantID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TenantForMonth(tenants, tt.date)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestTenantForMonth_InclusiveBounds(t *testing.T) {
	endsOnFirst := []model.Tenant{{ID: "a", LeaseStart: "2024-01-01", LeaseEnd: "2024-06-01"}}
	require.NotNil(t, TenantForMonth(endsOnFirst, month(2024, time.June)))

	startsOnLast := []model.Tenant{{ID: "b", LeaseStart: "2024-06-30T23:59:59Z", LeaseEnd: "2025-06-30"}}
	require.NotNil(t, TenantForMonth(startsOnLast, month(2024, time.June)))
}

func TestTenantForMonth_InvalidLeases(t *testing.T) {
	tenants := []model.Tenant{
		{ID: "missing-end", LeaseStart: "2024-01-01"},
		{ID: "missing-start", LeaseEnd: "2024-12-31"},
		{ID: "garbage", LeaseStart: "soon", LeaseEnd: "later"},
	}
	assert.Nil(t, TenantForMonth(tenants, month(2024, time.May)))
	assert.Nil(t, TenantForMonth(nil, month(2024, time.May)))
}

func TestTenantForMonth_MixedDateShapes(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tenants := []model.Tenant{
		{ID: "ts", LeaseStart: map[string]any{"seconds": float64(start.Unix())}, LeaseEnd: model.Timestamp{Seconds: start.AddDate(1, 0, -1).Unix()}},
	}
	got := TenantForMonth(tenants, month(2024, time.October))
	require.NotNil(t, got)
	assert.Equal(t, "ts", got.ID)
}

func TestTenantForMonth_IdenticalStartUsesID(t *testing.T) {
	tenants := []model.Tenant{
		{ID: "zeta", LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31"},
		{ID: "alpha", LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31"},
	}
	got := TenantForMonth(tenants, month(2024, time.March))
	require.NotNil(t, got)
	assert.Equal(t, "alpha", got.ID)

	reversed := []model.Tenant{tenants[1], tenants[0]}
	again := TenantForMonth(reversed, month(2024, time.March))
	require.NotNil(t, again)
	assert.Equal(t, "alpha", again.ID)
}

func TestTenantForMonth_Idempotent(t *testing.T) {
	tenants := []model.Tenant{
		{ID: "t-1", LeaseStart: "2024-03-01", LeaseEnd: "2024-08-31"},
		{ID: "t-2", LeaseStart: "2024-08-01", LeaseEnd: "2025-01-31"},
	}
	first := TenantForMonth(tenants, month(2024, time.August))
	second := TenantForMonth(tenants, month(2024, time.August))
	assert.Same(t, first, second)
	assert.Same(t, &tenants[1], first)
}

func TestOccupantsForProperty(t *testing.T) {
	property := &model.Property{
		ID:   "p-1",
		Type: model.PropertyTypeMultiFamily,
		Units: []model.Unit{
			{ID: "u-1", Tenants: []model.Tenant{{ID: "t-1", LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31"}}},
			{ID: "u-2"},
		},
	}

	occupants := OccupantsForProperty(property, month(2024, time.May))
	require.Len(t, occupants, 2)
	assert.Equal(t, "u-1", occupants[0].Unit.ID)
	require.NotNil(t, occupants[0].Tenant)
	assert.Nil(t, occupants[1].Tenant)
	assert.Equal(t, 1, Count(occupants))

	single := &model.Property{ID: "p-2", Type: model.PropertyTypeSingleFamily}
	occupants = OccupantsForProperty(single, month(2024, time.May))
	require.Len(t, occupants, 1)
	assert.Nil(t, occupants[0].Unit)
	assert.Zero(t, Count(occupants))

	assert.Nil(t, OccupantsForProperty(nil, month(2024, time.May)))
}
