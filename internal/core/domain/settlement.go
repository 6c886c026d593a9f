package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is a manual transfer from one user to another, recorded to
// reduce (or overpay) the payer's outstanding debt to the receiver.
type Settlement struct {
	SettlementID string          `json:"settlementID"` // Primary Key (UUID)
	FromUserID   string          `json:"fromUserID"`
	ToUserID     string          `json:"toUserID"`
	Amount       decimal.Decimal `json:"amount"` // Positive
	CurrencyCode string          `json:"currencyCode"`
	Note         string          `json:"note"`
	Status       ExpenseStatus   `json:"status"`
	SettledAt    time.Time       `json:"settledAt"`
	AuditFields
}

// Transfer is one suggested payment in a settlement plan produced by the
// reconciler. It is advisory only and carries no identity of its own.
type Transfer struct {
	FromUserID string          `json:"fromUserID"`
	ToUserID   string          `json:"toUserID"`
	Amount     decimal.Decimal `json:"amount"`
}
