package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/common"
	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/service"
)

// MockStore is an in-memory implementation of the property and transaction
// stores for testing.
type MockStore struct {
	properties map[string]model.Property
	// FailNext makes the next N store calls fail with Err.
	Err              error
	transactions     []model.Transaction
	FailNext         int
	version          int64
	transactionCalls int
	propertyCalls    int
	mu               sync.Mutex
}

// NewMockStore creates a store holding the given properties.
func NewMockStore(properties ...model.Property) *MockStore {
	s := &MockStore{properties: make(map[string]model.Property)}
	for _, p := range properties {
		s.properties[p.ID] = p
	}
	return s
}

// AddTransactions appends transactions and bumps the data version.
func (s *MockStore) AddTransactions(txns ...model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, txns...)
	s.version++
}

// Calls returns how many property and transaction reads were made.
func (s *MockStore) Calls() (propertyCalls, transactionCalls int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.propertyCalls, s.transactionCalls
}

func (s *MockStore) fail() error {
	if s.FailNext > 0 {
		s.FailNext--
		return s.Err
	}
	return nil
}

// GetProperty returns a copy of the stored property.
func (s *MockStore) GetProperty(_ context.Context, id string) (*model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.propertyCalls++
	if err := s.fail(); err != nil {
		return nil, err
	}
	p, ok := s.properties[id]
	if !ok {
		return nil, fmt.Errorf("property %s: %w", id, common.ErrNotFound)
	}
	return &p, nil
}

// ListUnits returns the units of a stored property.
func (s *MockStore) ListUnits(_ context.Context, propertyID string) ([]model.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[propertyID]
	if !ok {
		return nil, nil
	}
	units := make([]model.Unit, len(p.Units))
	copy(units, p.Units)
	return units, nil
}

// ListProperties returns every stored property.
func (s *MockStore) ListProperties(_ context.Context) ([]model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	properties := make([]model.Property, 0, len(s.properties))
	for _, p := range s.properties {
		properties = append(properties, p)
	}
	return properties, nil
}

// ListTransactions applies the cost center and date filters.
func (s *MockStore) ListTransactions(_ context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactionCalls++
	if err := s.fail(); err != nil {
		return nil, err
	}

	centers := make(map[string]bool, len(filter.CostCenters))
	for _, c := range filter.CostCenters {
		centers[c] = true
	}

	var result []model.Transaction
	for _, t := range s.transactions {
		if len(centers) > 0 && !centers[t.CostCenter] {
			continue
		}
		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && t.Date.After(*filter.EndDate) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// DataVersion reports the number of AddTransactions calls.
func (s *MockStore) DataVersion(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, nil
}

// MockAmortization is a test implementation of service.AmortizationCalculator.
type MockAmortization struct {
	Err      error
	Requests []service.AmortizationRequest
	Result   service.AmortizationResult
	Delay    time.Duration
	mu       sync.Mutex
}

// Calculate records the request and returns the configured result. A Delay
// longer than the caller's deadline yields the context error.
func (m *MockAmortization) Calculate(ctx context.Context, req service.AmortizationRequest) (service.AmortizationResult, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return service.AmortizationResult{}, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return service.AmortizationResult{}, m.Err
	}
	return m.Result, nil
}

// RequestCount returns the number of Calculate calls.
func (m *MockAmortization) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
