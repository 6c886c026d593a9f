package domain

import "github.com/shopspring/decimal"

// CounterpartyAmount pairs a counterparty with a positive amount owed in one
// direction. Resolving the counterparty's display name is the caller's job.
type CounterpartyAmount struct {
	UserID string          `json:"userID"`
	Amount decimal.Decimal `json:"amount"`
}

// BalanceSummary is the derived financial position of one user across all
// counterparties.
type BalanceSummary struct {
	UserID          string               `json:"userID"`
	TotalOwedToUser decimal.Decimal      `json:"totalOwedToUser"`
	TotalUserOwes   decimal.Decimal      `json:"totalUserOwes"`
	NetBalance      decimal.Decimal      `json:"netBalance"`
	OwedToUser      []CounterpartyAmount `json:"owedToUser"`
	UserOwes        []CounterpartyAmount `json:"userOwes"`
}
