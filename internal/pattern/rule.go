// Package pattern categorizes imported bank transactions with user-defined
// rules. Bank statements carry no categories of their own, so rules map
// merchant text, amount and direction onto a category hierarchy and,
// optionally, onto a more specific cost center.
package pattern

import (
	"context"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
)

// Direction restricts a rule to inflows or outflows.
type Direction string

// Directions a rule can require.
const (
	DirectionAny     Direction = ""
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// AmountConditionType represents the type of amount comparison.
type AmountConditionType string

// Amount condition constants. Comparisons use the absolute amount.
const (
	AmountLessThan     AmountConditionType = "lt"
	AmountLessEqual    AmountConditionType = "le"
	AmountEqual        AmountConditionType = "eq"
	AmountGreaterEqual AmountConditionType = "ge"
	AmountGreaterThan  AmountConditionType = "gt"
	AmountRange        AmountConditionType = "range"
	AmountAny          AmountConditionType = "any"
)

// Rule matches transactions and assigns them a category.
type Rule struct {
	AmountValue     *float64                `mapstructure:"amount_value" json:"amount_value,omitempty"`
	AmountMin       *float64                `mapstructure:"amount_min" json:"amount_min,omitempty"`
	AmountMax       *float64                `mapstructure:"amount_max" json:"amount_max,omitempty"`
	Name            string                  `mapstructure:"name" json:"name"`
	MerchantPattern string                  `mapstructure:"merchant_pattern" json:"merchant_pattern"`
	AmountCondition AmountConditionType     `mapstructure:"amount_condition" json:"amount_condition"`
	Direction       Direction               `mapstructure:"direction" json:"direction,omitempty"`
	CostCenter      string                  `mapstructure:"cost_center" json:"cost_center,omitempty"`
	Category        model.CategoryHierarchy `mapstructure:"category" json:"category"`
	Priority        int                     `mapstructure:"priority" json:"priority"`
	IsRegex         bool                    `mapstructure:"is_regex" json:"is_regex"`
}

// Matcher evaluates transactions against rules.
type Matcher interface {
	// Match returns the rules matching txn, highest priority first.
	Match(ctx context.Context, txn model.Transaction) ([]Rule, error)
}
