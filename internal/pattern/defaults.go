package pattern

import "github.com/Veraticus/the-rent-must-flow/internal/model"

// DefaultRules returns built-in rules for statement lines common to rental
// accounts. They use negative priorities so configured rules, which default
// to zero, win.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:            "Mortgage Payment",
			MerchantPattern: `\b(MORTGAGE|MTG|HOME\s*LOAN|LOAN\s*PMT|ROCKET|MR\s*COOPER)\b`,
			IsRegex:         true,
			Direction:       DirectionOutflow,
			Category:        model.CategoryHierarchy{L0: "Liability", L1: "Mortgage"},
			Priority:        -5,
		},
		{
			Name:            "Property Tax",
			MerchantPattern: `\b(PROPERTY\s*TAX|COUNTY\s*TREAS|TAX\s*COLLECTOR)\b`,
			IsRegex:         true,
			Direction:       DirectionOutflow,
			Category:        model.CategoryHierarchy{L0: "Operating Expenses", L1: "Property Tax"},
			Priority:        -4,
		},
		{
			Name:            "Insurance",
			MerchantPattern: `\b(INSURANCE|INS\s*PREM|STATE\s*FARM|ALLSTATE|GEICO)\b`,
			IsRegex:         true,
			Direction:       DirectionOutflow,
			Category:        model.CategoryHierarchy{L0: "Operating Expenses", L1: "Insurance"},
			Priority:        -4,
		},
		{
			Name:            "HOA Dues",
			MerchantPattern: `\b(HOA|HOMEOWNERS\s*ASSOC|ASSOCIATION\s*DUES)\b`,
			IsRegex:         true,
			Direction:       DirectionOutflow,
			Category:        model.CategoryHierarchy{L0: "Operating Expenses", L1: "HOA"},
			Priority:        -4,
		},
		{
			Name:            "Utilities",
			MerchantPattern: `\b(WATER|SEWER|ELECTRIC|GAS\s*CO|POWER|TRASH|WASTE)\b`,
			IsRegex:         true,
			Direction:       DirectionOutflow,
			Category:        model.CategoryHierarchy{L0: "Operating Expenses", L1: "Utilities"},
			Priority:        -3,
		},
		{
			Name:            "Rent Payment",
			MerchantPattern: `\b(ZELLE|VENMO|RENT|APPFOLIO|BUILDIUM|AVAIL|TURBOTENANT)\b`,
			IsRegex:         true,
			Direction:       DirectionInflow,
			Category:        model.CategoryHierarchy{L0: "Income", L1: "Rent"},
			Priority:        -3,
		},
		{
			Name:            "Owner Transfer",
			MerchantPattern: `\b(TRANSFER|XFER|ONLINE\s*TRANSFER)\b`,
			IsRegex:         true,
			Category:        model.CategoryHierarchy{L0: "Equity", L1: "Owner Transfer"},
			Priority:        -2,
		},
	}
}
