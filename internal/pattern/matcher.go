package pattern

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
)

// MatcherImpl implements Matcher for evaluating rules.
type MatcherImpl struct {
	compiledRegex map[int]*regexp.Regexp
	rules         []Rule
}

// NewMatcher creates a new matcher with the given rules. Regex rules that do
// not compile never match; run ValidateRules first to report them.
func NewMatcher(rules []Rule) *MatcherImpl {
	m := &MatcherImpl{
		rules:         rules,
		compiledRegex: make(map[int]*regexp.Regexp),
	}

	// Pre-compile regex patterns
	for i, rule := range rules {
		if rule.IsRegex && rule.MerchantPattern != "" {
			if re, err := regexp.Compile("(?i)" + rule.MerchantPattern); err == nil {
				m.compiledRegex[i] = re
			}
		}
	}

	return m
}

// Match evaluates a transaction against all configured rules and returns the
// matching ones. Ties in priority keep configuration order.
func (m *MatcherImpl) Match(ctx context.Context, txn model.Transaction) ([]Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matches []Rule
	for i, rule := range m.rules {
		if m.matchesRule(txn, i, rule) {
			matches = append(matches, rule)
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Priority > matches[b].Priority
	})

	return matches, nil
}

// Apply categorizes txns in place with their best matching rule and returns
// how many were changed. A rule that moves a transaction to another cost
// center also refreshes its hash.
func (m *MatcherImpl) Apply(ctx context.Context, txns []model.Transaction) (int, error) {
	applied := 0
	for i := range txns {
		matches, err := m.Match(ctx, txns[i])
		if err != nil {
			return applied, err
		}
		if len(matches) == 0 {
			continue
		}

		rule := matches[0]
		txns[i].Category = rule.Category
		if rule.CostCenter != "" && rule.CostCenter != txns[i].CostCenter {
			txns[i].CostCenter = rule.CostCenter
			txns[i].Hash = txns[i].GenerateHash()
		}
		applied++
	}
	return applied, nil
}

// matchesRule checks if a transaction matches a specific rule.
func (m *MatcherImpl) matchesRule(txn model.Transaction, index int, rule Rule) bool {
	if !m.matchesMerchant(txn, index, rule) {
		return false
	}

	if !matchesAmount(txn, rule) {
		return false
	}

	switch rule.Direction {
	case DirectionInflow:
		return txn.Amount > 0
	case DirectionOutflow:
		return txn.Amount < 0
	default:
		return true
	}
}

// matchesMerchant checks the description against the rule pattern. Plain
// patterns match as case-insensitive substrings.
func (m *MatcherImpl) matchesMerchant(txn model.Transaction, index int, rule Rule) bool {
	if rule.MerchantPattern == "" {
		return true // No merchant pattern means match all
	}

	if rule.IsRegex {
		if re, ok := m.compiledRegex[index]; ok {
			return re.MatchString(txn.Description)
		}
		return false
	}

	return strings.Contains(strings.ToLower(txn.Description), strings.ToLower(rule.MerchantPattern))
}

// matchesAmount checks if the transaction amount matches the rule condition.
func matchesAmount(txn model.Transaction, rule Rule) bool {
	amount := math.Abs(txn.Amount)

	switch rule.AmountCondition {
	case AmountAny, "":
		return true
	case AmountLessThan:
		return rule.AmountValue != nil && amount < *rule.AmountValue
	case AmountLessEqual:
		return rule.AmountValue != nil && amount <= *rule.AmountValue
	case AmountEqual:
		return rule.AmountValue != nil && math.Abs(amount-*rule.AmountValue) < 0.005
	case AmountGreaterEqual:
		return rule.AmountValue != nil && amount >= *rule.AmountValue
	case AmountGreaterThan:
		return rule.AmountValue != nil && amount > *rule.AmountValue
	case AmountRange:
		if rule.AmountMin != nil && amount < *rule.AmountMin {
			return false
		}
		if rule.AmountMax != nil && amount > *rule.AmountMax {
			return false
		}
		return true
	}

	return false
}
