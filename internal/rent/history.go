package rent

import (
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/normalize"
)

// Change is a validated rent history entry.
type Change struct {
	Effective time.Time
	Amount    float64
}

// ValidChanges returns the entries with a positive amount and a parseable
// effective date, in stored order.
func ValidChanges(entries []model.RentHistoryEntry) []Change {
	changes := make([]Change, 0, len(entries))
	for _, e := range entries {
		amount := normalize.ToNumber(e.Amount)
		if amount <= 0 {
			continue
		}
		effective, ok := normalize.ToDate(e.EffectiveDate)
		if !ok {
			continue
		}
		changes = append(changes, Change{Effective: effective, Amount: amount})
	}
	return changes
}

// AsOf returns the amount of the latest valid entry effective on or before
// date. Stored order does not matter; entries sharing an effective date
// resolve to the one stored last.
func AsOf(entries []model.RentHistoryEntry, date time.Time) (float64, bool) {
	var (
		best  Change
		found bool
	)
	for _, c := range ValidChanges(entries) {
		if c.Effective.After(date) {
			continue
		}
		if !found || !c.Effective.Before(best.Effective) {
			best = c
			found = true
		}
	}
	return best.Amount, found
}

// FlattenHistory concatenates the rent history of every tenant.
func FlattenHistory(tenants []model.Tenant) []model.RentHistoryEntry {
	var all []model.RentHistoryEntry
	for _, t := range tenants {
		all = append(all, t.RentHistory...)
	}
	return all
}
