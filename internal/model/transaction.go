package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// CategoryHierarchy is the four-level classification of a transaction. L0 is
// the accounting class, possibly written as a free-text synonym.
type CategoryHierarchy struct {
	L0 string `json:"l0"`
	L1 string `json:"l1,omitempty"`
	L2 string `json:"l2,omitempty"`
	L3 string `json:"l3,omitempty"`
}

// Transaction is a single bank movement attributed to a cost center.
type Transaction struct {
	Date          time.Time         `json:"date"`
	Category      CategoryHierarchy `json:"categoryHierarchy"`
	ID            string            `json:"id"`
	Description   string            `json:"description,omitempty"`
	CostCenter    string            `json:"costCenter,omitempty"`
	BankAccountID string            `json:"bankAccountId,omitempty"`
	Hash          string            `json:"-"`
	Amount        float64           `json:"amount"` // positive = inflow
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.BankAccountID,
		t.CostCenter)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
