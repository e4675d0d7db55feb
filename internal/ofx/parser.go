// Package ofx reads bank and card statements exported as OFX/QFX and turns
// their entries into ledger transactions for one property or unit.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/aclindsa/ofxgo"
)

// Category l0 values assigned from the sign of the amount. Both match the
// default accounting vocabulary.
const (
	CategoryIncome  = "Income"
	CategoryExpense = "Expense"
)

// Parser converts statements into transactions booked to one cost center.
type Parser struct {
	costCenter string
}

// NewParser returns a parser that books every entry to costCenter, which is
// a property or unit ID.
func NewParser(costCenter string) *Parser {
	return &Parser{costCenter: costCenter}
}

// statement is the part of a bank or card statement the ledger needs.
type statement struct {
	entries   *ofxgo.TransactionList
	accountID string
	kind      string
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRegex  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	spaceRegex    = regexp.MustCompile(`\s+`)
	datePrefix    = regexp.MustCompile(`^\d{2}/\d{2}\s+`)
)

// channelPrefixes are the payment-rail labels banks put in front of the
// counterparty. They say how money moved, not who moved it.
var channelPrefixes = []string{
	"ACH CREDIT ",
	"ACH DEBIT ",
	"ACH DEPOSIT ",
	"ACH PMT ",
	"CHECK CARD ",
	"DEBIT CARD PURCHASE ",
	"DEBIT PURCHASE ",
	"MC PURCHASE ",
	"MOBILE DEPOSIT ",
	"ONLINE TRANSFER FROM ",
	"ONLINE TRANSFER TO ",
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"VISA PURCHASE ",
}

// placeholderNames carry no counterparty at all; the memo is used instead.
var placeholderNames = map[string]bool{
	"":                true,
	"ACH":             true,
	"CARD PURCHASE":   true,
	"CREDIT":          true,
	"DEBIT":           true,
	"DEPOSIT":         true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"PURCHASE":        true,
	"TRANSFER":        true,
}

// repairSGML fixes SGML exports that ofxgo rejects as sent, mostly opening
// tags that lost their '>' and severities in mixed case.
func repairSGML(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagRegex.ReplaceAllString(content, "$1>")
}

func readStatements(ctx context.Context, reader io.Reader) ([]statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(repairSGML(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var stmts []statement
	for _, msg := range resp.Bank {
		if s, ok := msg.(*ofxgo.StatementResponse); ok {
			stmts = append(stmts, statement{kind: "bank", accountID: string(s.BankAcctFrom.AcctID), entries: s.BankTranList})
		}
	}
	for _, msg := range resp.CreditCard {
		if s, ok := msg.(*ofxgo.CCStatementResponse); ok {
			stmts = append(stmts, statement{kind: "card", accountID: string(s.CCAcctFrom.AcctID), entries: s.BankTranList})
		}
	}
	return stmts, nil
}

// ParseFile reads one OFX/QFX document and returns its entries in statement
// order. Statements without a transaction list contribute nothing.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	stmts, err := readStatements(ctx, reader)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	for _, s := range stmts {
		if s.entries == nil {
			slog.Debug("Statement has no transactions", "kind", s.kind, "account", s.accountID)
			continue
		}
		for _, entry := range s.entries.Transactions {
			transactions = append(transactions, p.toTransaction(entry, s.accountID))
		}
	}

	slog.Info("Imported OFX statements",
		"cost_center", p.costCenter,
		"statements", len(stmts),
		"transactions", len(transactions))
	return transactions, nil
}

// toTransaction books one statement entry. Deposits stay positive and
// debits stay negative.
func (p *Parser) toTransaction(entry ofxgo.Transaction, accountID string) model.Transaction {
	amount, _ := entry.TrnAmt.Float64()

	description := describe(entry)
	if check := string(entry.CheckNum); check != "" && !strings.Contains(description, check) {
		description = fmt.Sprintf("%s (check %s)", description, check)
	}

	tx := model.Transaction{
		ID:            accountID + "-" + string(entry.FiTID),
		Date:          entry.DtPosted.UTC(),
		Description:   description,
		Amount:        amount,
		CostCenter:    p.costCenter,
		BankAccountID: accountID,
		Category:      categorize(entry.TrnType.String(), amount),
	}
	tx.Hash = tx.GenerateHash()
	return tx
}

// categorize infers a category from the transaction type and sign. OFX
// carries no categories of its own.
func categorize(trnType string, amount float64) model.CategoryHierarchy {
	switch trnType {
	case "INT", "DIV":
		return model.CategoryHierarchy{L0: CategoryIncome, L1: "Interest"}
	case "FEE", "SRVCHG":
		return model.CategoryHierarchy{L0: CategoryExpense, L1: "Bank Fees"}
	}
	if amount > 0 {
		return model.CategoryHierarchy{L0: CategoryIncome}
	}
	return model.CategoryHierarchy{L0: CategoryExpense}
}

// describe names the counterparty of an entry: the payee when the bank sent
// one, else NAME, else MEMO. Payment-rail labels and a leading MM/DD posting
// date are dropped so a tenant's deposits read the same month to month.
func describe(entry ofxgo.Transaction) string {
	if entry.Payee != nil {
		if payee := collapse(string(entry.Payee.Name)); payee != "" {
			return payee
		}
	}

	text := collapse(string(entry.Name))
	if placeholderNames[strings.ToUpper(text)] {
		if memo := collapse(string(entry.Memo)); memo != "" {
			text = memo
		}
	}

	for _, prefix := range channelPrefixes {
		if len(text) > len(prefix) && strings.EqualFold(text[:len(prefix)], prefix) {
			text = text[len(prefix):]
			break
		}
	}
	return datePrefix.ReplaceAllString(text, "")
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

// GetAccounts lists the distinct account IDs in a document, sorted.
func (p *Parser) GetAccounts(ctx context.Context, reader io.Reader) ([]string, error) {
	stmts, err := readStatements(ctx, reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	for _, s := range stmts {
		if s.accountID == "" || seen[s.accountID] {
			continue
		}
		seen[s.accountID] = true
		accounts = append(accounts, s.accountID)
	}
	sort.Strings(accounts)
	return accounts, nil
}
