package pattern

import (
	"testing"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/performance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateRule(t *testing.T) {
	validator := NewValidator(nil)
	expense := model.CategoryHierarchy{L0: "Operating Expenses", L1: "Utilities"}

	tests := []struct {
		name    string
		errMsg  string
		rule    Rule
		wantErr bool
	}{
		{
			name: "valid substring rule",
			rule: Rule{Name: "water", MerchantPattern: "water", Category: expense},
		},
		{
			name: "valid range rule",
			rule: Rule{Name: "r", AmountCondition: AmountRange, AmountMax: floatPtr(50), Category: expense},
		},
		{
			name:    "missing name",
			rule:    Rule{Category: expense},
			wantErr: true,
			errMsg:  "name is required",
		},
		{
			name:    "bad regex",
			rule:    Rule{Name: "r", MerchantPattern: "(", IsRegex: true, Category: expense},
			wantErr: true,
			errMsg:  "bad merchant pattern",
		},
		{
			name:    "comparison without value",
			rule:    Rule{Name: "r", AmountCondition: AmountGreaterThan, Category: expense},
			wantErr: true,
			errMsg:  "needs amount_value",
		},
		{
			name:    "empty range",
			rule:    Rule{Name: "r", AmountCondition: AmountRange, Category: expense},
			wantErr: true,
			errMsg:  "range needs",
		},
		{
			name:    "inverted range",
			rule:    Rule{Name: "r", AmountCondition: AmountRange, AmountMin: floatPtr(10), AmountMax: floatPtr(5), Category: expense},
			wantErr: true,
			errMsg:  "amount_min exceeds amount_max",
		},
		{
			name:    "unknown condition",
			rule:    Rule{Name: "r", AmountCondition: "about", Category: expense},
			wantErr: true,
			errMsg:  "unknown amount_condition",
		},
		{
			name:    "unknown direction",
			rule:    Rule{Name: "r", Direction: "sideways", Category: expense},
			wantErr: true,
			errMsg:  "unknown direction",
		},
		{
			name:    "unknown category",
			rule:    Rule{Name: "r", Category: model.CategoryHierarchy{L0: "Groceries"}},
			wantErr: true,
			errMsg:  "not a known accounting class",
		},
		{
			name:    "income on outflows",
			rule:    Rule{Name: "r", Direction: DirectionOutflow, Category: model.CategoryHierarchy{L0: "Income"}},
			wantErr: true,
			errMsg:  "income category on outflows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateRule(tt.rule)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRule)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidator_CustomVocabulary(t *testing.T) {
	vocabulary := performance.DefaultVocabulary().Merge(map[model.AccountingClass][]string{
		model.ClassOperatingExpense: {"Utilities"},
	})
	rule := Rule{Name: "u", Category: model.CategoryHierarchy{L0: "Utilities"}}

	assert.Error(t, NewValidator(nil).ValidateRule(rule))
	assert.NoError(t, NewValidator(vocabulary).ValidateRule(rule))
}

func TestValidator_ValidateRules(t *testing.T) {
	rules := []Rule{
		{Name: "ok", Category: model.CategoryHierarchy{L0: "Income"}},
		{Name: "bad", Category: model.CategoryHierarchy{L0: "???"}},
	}

	err := NewValidator(nil).ValidateRules(rules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 1")
}
