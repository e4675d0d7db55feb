package model

// AccountingClass is the normalized top level of a category hierarchy.
type AccountingClass string

const (
	// ClassIncome covers rent and other inflows.
	ClassIncome AccountingClass = "INCOME"
	// ClassOperatingExpense covers costs of running the property.
	ClassOperatingExpense AccountingClass = "OPERATING_EXPENSE"
	// ClassAsset covers capital purchases.
	ClassAsset AccountingClass = "ASSET"
	// ClassLiability covers loan principal and deposits held.
	ClassLiability AccountingClass = "LIABILITY"
	// ClassEquity covers owner contributions and draws.
	ClassEquity AccountingClass = "EQUITY"
	// ClassUnknown is used when l0 matches nothing in the vocabulary.
	ClassUnknown AccountingClass = "UNKNOWN"
)

// AccountingClasses lists the known classes in reporting order.
var AccountingClasses = []AccountingClass{
	ClassIncome,
	ClassOperatingExpense,
	ClassAsset,
	ClassLiability,
	ClassEquity,
}
