package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus indicates the lifecycle state of an expense.
type ExpenseStatus string

const (
	Posted   ExpenseStatus = "POSTED"
	Reversed ExpenseStatus = "REVERSED"
)

// Expense represents a single shared cost paid by one user and divided among
// a set of participants according to a split policy.
type Expense struct {
	ExpenseID    string          `json:"expenseID"` // Primary Key (UUID)
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"` // Total, positive
	CurrencyCode string          `json:"currencyCode"`
	PayerID      string          `json:"payerID"`
	Policy       SplitPolicy     `json:"policy"`
	Status       ExpenseStatus   `json:"status"` // Default: Posted
	ExpenseDate  time.Time       `json:"expenseDate"`
	AuditFields

	// Shares is populated on reads that include the split breakdown; it is
	// nil on writes (shares are persisted as their own rows).
	Shares []SplitShare `json:"shares,omitempty"`
}
