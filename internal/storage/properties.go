package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/the-rent-must-flow/internal/common"
	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/google/uuid"
)

// Raw rent and lease fields are stored as JSON so that whatever shape a
// record arrived in (number, currency string, timestamp object) survives.
type propertyPayload struct {
	Mortgage   *model.Mortgage   `json:"mortgage,omitempty"`
	Financials *model.Financials `json:"financials,omitempty"`
	TargetRent any               `json:"targetRent,omitempty"`
}

type unitPayload struct {
	Financials *model.Financials `json:"financials,omitempty"`
	TargetRent any               `json:"targetRent,omitempty"`
}

type tenantPayload struct {
	LeaseStart  any                      `json:"leaseStart,omitempty"`
	LeaseEnd    any                      `json:"leaseEnd,omitempty"`
	RentAmount  any                      `json:"rentAmount,omitempty"`
	Rent        any                      `json:"rent,omitempty"`
	MonthlyRent any                      `json:"monthlyRent,omitempty"`
	RentHistory []model.RentHistoryEntry `json:"rentHistory,omitempty"`
}

// SaveProperty replaces the property, its units and all of their tenants.
// Records without an ID are assigned one, and the assigned IDs are written
// back to property.
func (s *SQLiteStorage) SaveProperty(ctx context.Context, property *model.Property) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	assignIDs(property)
	if err := validateProperty(property); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveProperty(ctx, tx, property); err != nil {
		return classify(err)
	}

	return tx.Commit()
}

func assignIDs(property *model.Property) {
	if property == nil {
		return
	}
	if property.ID == "" {
		property.ID = uuid.NewString()
	}
	for i := range property.Tenants {
		if property.Tenants[i].ID == "" {
			property.Tenants[i].ID = uuid.NewString()
		}
	}
	for i := range property.Units {
		unit := &property.Units[i]
		if unit.ID == "" {
			unit.ID = uuid.NewString()
		}
		unit.PropertyID = property.ID
		for j := range unit.Tenants {
			if unit.Tenants[j].ID == "" {
				unit.Tenants[j].ID = uuid.NewString()
			}
		}
	}
}

func saveProperty(ctx context.Context, q queryable, property *model.Property) error {
	payload, err := json.Marshal(propertyPayload{
		Mortgage:   property.Mortgage,
		Financials: property.Financials,
		TargetRent: property.TargetRent,
	})
	if err != nil {
		return fmt.Errorf("failed to encode property %s: %w", property.ID, err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO properties (id, name, property_type, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			property_type = excluded.property_type,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`, property.ID, property.Name, string(property.Type), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save property %s: %w", property.ID, err)
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM tenants WHERE property_id = ?`, property.ID); err != nil {
		return fmt.Errorf("failed to clear tenants of %s: %w", property.ID, err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM units WHERE property_id = ?`, property.ID); err != nil {
		return fmt.Errorf("failed to clear units of %s: %w", property.ID, err)
	}

	for _, tenant := range property.Tenants {
		if err := insertTenant(ctx, q, property.ID, "", tenant); err != nil {
			return err
		}
	}

	for _, unit := range property.Units {
		unitJSON, err := json.Marshal(unitPayload{Financials: unit.Financials, TargetRent: unit.TargetRent})
		if err != nil {
			return fmt.Errorf("failed to encode unit %s: %w", unit.ID, err)
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO units (id, property_id, name, payload) VALUES (?, ?, ?, ?)
		`, unit.ID, property.ID, unit.Name, string(unitJSON))
		if err != nil {
			return fmt.Errorf("failed to save unit %s: %w", unit.ID, err)
		}
		for _, tenant := range unit.Tenants {
			if err := insertTenant(ctx, q, property.ID, unit.ID, tenant); err != nil {
				return err
			}
		}
	}

	return nil
}

func insertTenant(ctx context.Context, q queryable, propertyID, unitID string, tenant model.Tenant) error {
	payload, err := json.Marshal(tenantPayload{
		LeaseStart:  tenant.LeaseStart,
		LeaseEnd:    tenant.LeaseEnd,
		RentAmount:  tenant.RentAmount,
		Rent:        tenant.Rent,
		MonthlyRent: tenant.MonthlyRent,
		RentHistory: tenant.RentHistory,
	})
	if err != nil {
		return fmt.Errorf("failed to encode tenant %s: %w", tenant.ID, err)
	}

	var unit sql.NullString
	if unitID != "" {
		unit = sql.NullString{String: unitID, Valid: true}
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO tenants (id, property_id, unit_id, name, payload) VALUES (?, ?, ?, ?, ?)
	`, tenant.ID, propertyID, unit, tenant.Name, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save tenant %s: %w", tenant.ID, err)
	}
	return nil
}

// GetProperty loads a property with its direct tenants and its units.
func (s *SQLiteStorage) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var (
		property     model.Property
		propertyType string
		payload      string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, property_type, payload FROM properties WHERE id = ?
	`, id).Scan(&property.ID, &property.Name, &propertyType, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("property %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query property %s: %w", id, err))
	}
	property.Type = model.PropertyType(propertyType)

	var decoded propertyPayload
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("%w: property %s payload: %v", common.ErrDatabaseCorrupted, id, err)
	}
	property.Mortgage = decoded.Mortgage
	property.Financials = decoded.Financials
	property.TargetRent = decoded.TargetRent

	tenants, err := s.queryTenants(ctx, `WHERE property_id = ? AND unit_id IS NULL`, id)
	if err != nil {
		return nil, err
	}
	property.Tenants = tenants[""]

	units, err := s.ListUnits(ctx, id)
	if err != nil {
		return nil, err
	}
	property.Units = units

	return &property, nil
}

// ListUnits returns the units of a property with their tenants attached.
func (s *SQLiteStorage) ListUnits(ctx context.Context, propertyID string) ([]model.Unit, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(propertyID, "propertyID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, name, payload FROM units WHERE property_id = ? ORDER BY name, id
	`, propertyID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query units: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var units []model.Unit
	for rows.Next() {
		var (
			unit    model.Unit
			payload string
		)
		if err := rows.Scan(&unit.ID, &unit.PropertyID, &unit.Name, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		var decoded unitPayload
		if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
			return nil, fmt.Errorf("%w: unit %s payload: %v", common.ErrDatabaseCorrupted, unit.ID, err)
		}
		unit.Financials = decoded.Financials
		unit.TargetRent = decoded.TargetRent
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating units: %w", err)
	}
	// Release the single connection before the tenant query.
	_ = rows.Close()

	tenants, err := s.queryTenants(ctx, `WHERE property_id = ? AND unit_id IS NOT NULL`, propertyID)
	if err != nil {
		return nil, err
	}
	for i := range units {
		units[i].Tenants = tenants[units[i].ID]
	}

	return units, nil
}

// ListProperties returns every property, fully loaded, ordered by name.
func (s *SQLiteStorage) ListProperties(ctx context.Context) ([]model.Property, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM properties ORDER BY name, id`)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query properties: %w", err))
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan property id: %w", err)
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	properties := make([]model.Property, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProperty(ctx, id)
		if err != nil {
			return nil, err
		}
		properties = append(properties, *p)
	}
	return properties, nil
}

// DeleteProperty removes a property along with its units and tenants.
func (s *SQLiteStorage) DeleteProperty(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, query := range []string{
		`DELETE FROM tenants WHERE property_id = ?`,
		`DELETE FROM units WHERE property_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return classify(fmt.Errorf("failed to delete property %s: %w", id, err))
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return classify(fmt.Errorf("failed to delete property %s: %w", id, err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("property %s: %w", id, common.ErrNotFound)
	}

	return tx.Commit()
}

// queryTenants loads tenants matching where, grouped by unit ID ("" for
// tenants attached directly to the property).
func (s *SQLiteStorage) queryTenants(ctx context.Context, where string, args ...any) (map[string][]model.Tenant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, unit_id, name, payload FROM tenants `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query tenants: %w", err))
	}
	defer func() { _ = rows.Close() }()

	grouped := make(map[string][]model.Tenant)
	for rows.Next() {
		var (
			tenant  model.Tenant
			unitID  sql.NullString
			payload string
		)
		if err := rows.Scan(&tenant.ID, &tenant.PropertyID, &unitID, &tenant.Name, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		var decoded tenantPayload
		if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
			return nil, fmt.Errorf("%w: tenant %s payload: %v", common.ErrDatabaseCorrupted, tenant.ID, err)
		}
		tenant.UnitID = unitID.String
		tenant.LeaseStart = decoded.LeaseStart
		tenant.LeaseEnd = decoded.LeaseEnd
		tenant.RentAmount = decoded.RentAmount
		tenant.Rent = decoded.Rent
		tenant.MonthlyRent = decoded.MonthlyRent
		tenant.RentHistory = decoded.RentHistory
		grouped[tenant.UnitID] = append(grouped[tenant.UnitID], tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenants: %w", err)
	}
	return grouped, nil
}
