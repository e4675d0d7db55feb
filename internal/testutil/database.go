// Package testutil provides test utilities for the-rent-must-flow.
// It sets up isolated in-memory databases seeded with properties and
// transactions built through a fluent API.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/service"
	"github.com/Veraticus/the-rent-must-flow/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage    service.Storage
	t          *testing.T
	Properties []model.Property
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Properties     []model.Property
	Transactions   []model.Transaction
	SkipMigrations bool
}

// SetupTestDB creates a new in-memory test database seeded with properties.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewPropertyBuilder("maple", "Maple Duplex").
//			MultiFamily().
//			WithUnit("maple-a", "Unit A", testutil.Tenant("t-1", 1500, "2024-01-01", "2024-12-31")).
//			Build(),
//	)
func SetupTestDB(t *testing.T, properties ...model.Property) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Properties: properties})
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	ctx := context.Background()

	// Run migrations unless skipped
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Seed properties
	properties := make([]model.Property, len(opts.Properties))
	for i := range opts.Properties {
		properties[i] = opts.Properties[i]
		if err := store.SaveProperty(ctx, &properties[i]); err != nil {
			t.Fatalf("failed to seed property %q: %v", opts.Properties[i].Name, err)
		}
	}

	if len(opts.Transactions) > 0 {
		if err := store.SaveTransactions(ctx, opts.Transactions); err != nil {
			t.Fatalf("failed to seed transactions: %v", err)
		}
	}

	// Run custom setup
	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage:    store,
		Properties: properties,
		t:          t,
	}
}

// MustGetProperty loads the property with the given ID or fails the test.
func (db *TestDB) MustGetProperty(id string) *model.Property {
	db.t.Helper()
	property, err := db.Storage.GetProperty(context.Background(), id)
	if err != nil {
		db.t.Fatalf("property %q not found in test data: %v", id, err)
	}
	return property
}
