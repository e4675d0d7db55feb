package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/performance"
)

// ErrInvalidRule is returned for rules that can never be applied correctly.
var ErrInvalidRule = errors.New("invalid categorization rule")

// Validator checks rules against the category vocabulary used for reports.
type Validator struct {
	vocabulary *performance.Vocabulary
}

// NewValidator creates a new rule validator. A nil vocabulary uses the
// default synonyms.
func NewValidator(vocabulary *performance.Vocabulary) *Validator {
	if vocabulary == nil {
		vocabulary = performance.DefaultVocabulary()
	}
	return &Validator{vocabulary: vocabulary}
}

// ValidateRule ensures a rule compiles, has a usable amount condition and
// assigns a category that reports will recognize.
func (v *Validator) ValidateRule(rule Rule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRule)
	}

	if rule.IsRegex {
		if _, err := regexp.Compile(rule.MerchantPattern); err != nil {
			return fmt.Errorf("%w: %s: bad merchant pattern: %v", ErrInvalidRule, rule.Name, err)
		}
	}

	switch rule.AmountCondition {
	case AmountAny, "":
	case AmountLessThan, AmountLessEqual, AmountEqual, AmountGreaterEqual, AmountGreaterThan:
		if rule.AmountValue == nil {
			return fmt.Errorf("%w: %s: amount_condition %q needs amount_value", ErrInvalidRule, rule.Name, rule.AmountCondition)
		}
	case AmountRange:
		if rule.AmountMin == nil && rule.AmountMax == nil {
			return fmt.Errorf("%w: %s: range needs amount_min or amount_max", ErrInvalidRule, rule.Name)
		}
		if rule.AmountMin != nil && rule.AmountMax != nil && *rule.AmountMin > *rule.AmountMax {
			return fmt.Errorf("%w: %s: amount_min exceeds amount_max", ErrInvalidRule, rule.Name)
		}
	default:
		return fmt.Errorf("%w: %s: unknown amount_condition %q", ErrInvalidRule, rule.Name, rule.AmountCondition)
	}

	switch rule.Direction {
	case DirectionAny, DirectionInflow, DirectionOutflow:
	default:
		return fmt.Errorf("%w: %s: unknown direction %q", ErrInvalidRule, rule.Name, rule.Direction)
	}

	class := v.vocabulary.Classify(rule.Category.L0)
	if class == model.ClassUnknown {
		return fmt.Errorf("%w: %s: category %q is not a known accounting class", ErrInvalidRule, rule.Name, rule.Category.L0)
	}

	// Income rules on outflows would report refunds as rent.
	if class == model.ClassIncome && rule.Direction == DirectionOutflow {
		return fmt.Errorf("%w: %s: income category on outflows", ErrInvalidRule, rule.Name)
	}

	return nil
}

// ValidateRules validates every rule, reporting the first failure.
func (v *Validator) ValidateRules(rules []Rule) error {
	for i := range rules {
		if err := v.ValidateRule(rules[i]); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}
