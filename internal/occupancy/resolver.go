// Package occupancy decides which tenant occupies a property or unit in a
// given calendar month.
package occupancy

import (
	"log/slog"
	"sort"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/normalize"
	"github.com/Veraticus/the-rent-must-flow/internal/period"
)

type candidate struct {
	tenant *model.Tenant
	start  time.Time
}

// TenantForMonth returns the tenant occupying the month containing date, or
// nil when the space is vacant. Tenants without a parseable lease start and
// end never match. When several leases overlap the month the most recently
// started lease wins; identical starts fall back to the lowest tenant ID.
//
// The returned pointer refers to an element of tenants.
func TenantForMonth(tenants []model.Tenant, date time.Time) *model.Tenant {
	window := period.MonthWindow(date)

	var candidates []candidate
	for i := range tenants {
		start, ok := normalize.ToDate(tenants[i].LeaseStart)
		if !ok {
			continue
		}
		end, ok := normalize.ToDate(tenants[i].LeaseEnd)
		if !ok {
			continue
		}
		if window.Overlaps(start, end) {
			candidates = append(candidates, candidate{tenant: &tenants[i], start: start})
		}
	}

	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0].tenant
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].start.Equal(candidates[j].start) {
			return candidates[i].start.After(candidates[j].start)
		}
		return candidates[i].tenant.ID < candidates[j].tenant.ID
	})

	slog.Debug("overlapping leases resolved",
		"month", window.Key(),
		"candidates", len(candidates),
		"tenant_id", candidates[0].tenant.ID)

	return candidates[0].tenant
}

// Occupant pairs a resolved tenant with the unit it occupies. Unit is nil for
// tenants attached directly to the property.
type Occupant struct {
	Tenant *model.Tenant
	Unit   *model.Unit
}

// OccupantsForProperty resolves one occupant slot per billable space: the
// property itself when it has direct tenants or no units, otherwise one slot
// per unit. Vacant slots carry a nil Tenant.
func OccupantsForProperty(property *model.Property, date time.Time) []Occupant {
	if property == nil {
		return nil
	}

	var slots []Occupant
	if len(property.Tenants) > 0 || len(property.Units) == 0 {
		slots = append(slots, Occupant{Tenant: TenantForMonth(property.Tenants, date)})
	}
	for i := range property.Units {
		unit := &property.Units[i]
		slots = append(slots, Occupant{
			Tenant: TenantForMonth(unit.Tenants, date),
			Unit:   unit,
		})
	}
	return slots
}

// Count returns how many slots have a tenant.
func Count(occupants []Occupant) int {
	n := 0
	for _, o := range occupants {
		if o.Tenant != nil {
			n++
		}
	}
	return n
}
