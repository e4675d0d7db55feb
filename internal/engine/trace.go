package engine

import (
	"context"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/period"
	"github.com/Veraticus/the-rent-must-flow/internal/rent"
)

// RentLine explains the rent due for one billable space.
type RentLine struct {
	Unit       *model.Unit
	Tenant     *model.Tenant
	Resolution rent.Resolution
}

// RentTrace resolves the rent due for every billable space in scope and
// reports which fallback produced each amount.
func (e *Engine) RentTrace(ctx context.Context, scope Scope, month time.Time) ([]RentLine, error) {
	window := period.MonthWindow(month)
	snap, err := e.loadScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	occupants := occupantsFor(snap, window.Start)
	lines := make([]RentLine, 0, len(occupants))
	for _, o := range occupants {
		lines = append(lines, RentLine{
			Unit:   o.Unit,
			Tenant: o.Tenant,
			Resolution: e.resolver.Resolve(rent.Input{
				Date:     window.Start,
				Tenant:   o.Tenant,
				Property: snap.property,
				Unit:     o.Unit,
			}),
		})
	}
	return lines, nil
}
