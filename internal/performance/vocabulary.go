package performance

import (
	"slices"
	"strings"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
)

// Vocabulary maps free-text top-level category names to accounting classes.
// Exact (case-insensitive) synonyms are tried first, then substring rules.
type Vocabulary struct {
	exact    map[string]model.AccountingClass
	contains []containsRule
}

type containsRule struct {
	needle string
	class  model.AccountingClass
}

// DefaultSynonyms is the built-in synonym table.
func DefaultSynonyms() map[model.AccountingClass][]string {
	return map[model.AccountingClass][]string{
		model.ClassIncome: {
			"income", "revenue", "rental income", "rent income", "rents", "rent",
		},
		model.ClassOperatingExpense: {
			"expense", "expenses", "operating expense", "operating expenses", "opex",
		},
		model.ClassAsset: {
			"asset", "assets", "capital expenditure", "capex",
		},
		model.ClassLiability: {
			"liability", "liabilities", "loan", "mortgage", "debt",
		},
		model.ClassEquity: {
			"equity", "owner equity", "owner's equity", "owner contribution", "owner draw",
		},
	}
}

// NewVocabulary builds a vocabulary from a synonym table. The class names
// themselves ("INCOME", "OPERATING_EXPENSE", ...) always match.
func NewVocabulary(synonyms map[model.AccountingClass][]string) *Vocabulary {
	v := &Vocabulary{
		exact: make(map[string]model.AccountingClass),
		contains: []containsRule{
			{needle: "income", class: model.ClassIncome},
			{needle: "expense", class: model.ClassOperatingExpense},
		},
	}
	for _, class := range model.AccountingClasses {
		v.exact[strings.ToLower(string(class))] = class
	}
	addSynonyms(v.exact, synonyms)
	return v
}

// DefaultVocabulary returns a vocabulary over DefaultSynonyms.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(DefaultSynonyms())
}

// Merge returns a new vocabulary holding the receiver's synonyms plus extra.
// Entries in extra take precedence.
func (v *Vocabulary) Merge(extra map[model.AccountingClass][]string) *Vocabulary {
	merged := &Vocabulary{
		exact:    make(map[string]model.AccountingClass, len(v.exact)),
		contains: v.contains,
	}
	for k, c := range v.exact {
		merged.exact[k] = c
	}
	addSynonyms(merged.exact, extra)
	return merged
}

// addSynonyms writes every word of synonyms into exact, overriding what is
// already there. Classes are visited in reporting order, then any others by
// name, and a word listed under two classes of the same table keeps the
// first.
func addSynonyms(exact map[string]model.AccountingClass, synonyms map[model.AccountingClass][]string) {
	added := make(map[string]bool)
	for _, class := range synonymOrder(synonyms) {
		for _, w := range synonyms[class] {
			key := strings.ToLower(strings.TrimSpace(w))
			if key == "" || added[key] {
				continue
			}
			exact[key] = class
			added[key] = true
		}
	}
}

func synonymOrder(synonyms map[model.AccountingClass][]string) []model.AccountingClass {
	order := make([]model.AccountingClass, 0, len(synonyms))
	for _, class := range model.AccountingClasses {
		if _, ok := synonyms[class]; ok {
			order = append(order, class)
		}
	}
	var rest []model.AccountingClass
	for class := range synonyms {
		if !slices.Contains(model.AccountingClasses, class) {
			rest = append(rest, class)
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}

// Classify maps a category l0 value to its accounting class.
func (v *Vocabulary) Classify(l0 string) model.AccountingClass {
	key := strings.ToLower(strings.TrimSpace(l0))
	if key == "" {
		return model.ClassUnknown
	}
	if class, ok := v.exact[key]; ok {
		return class
	}
	for _, rule := range v.contains {
		if strings.Contains(key, rule.needle) {
			return rule.class
		}
	}
	return model.ClassUnknown
}
