package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

// BalanceBetweenResponse is the signed pairwise balance from the user's
// perspective; positive means the counterparty owes the user.
type BalanceBetweenResponse struct {
	UserID         string          `json:"userID"`
	CounterpartyID string          `json:"counterpartyID"`
	Balance        decimal.Decimal `json:"balance"`
}

// CounterpartyAmountResponse pairs a counterparty with an owed amount.
type CounterpartyAmountResponse struct {
	UserID string          `json:"userID"`
	Amount decimal.Decimal `json:"amount"`
}

// BalanceSummaryResponse is the full financial position of one user.
type BalanceSummaryResponse struct {
	UserID          string                       `json:"userID"`
	TotalOwedToUser decimal.Decimal              `json:"totalOwedToUser"`
	TotalUserOwes   decimal.Decimal              `json:"totalUserOwes"`
	NetBalance      decimal.Decimal              `json:"netBalance"`
	OwedToUser      []CounterpartyAmountResponse `json:"owedToUser"`
	UserOwes        []CounterpartyAmountResponse `json:"userOwes"`
}

// ToBalanceSummaryResponse converts the domain summary to its response DTO.
func ToBalanceSummaryResponse(s domain.BalanceSummary) BalanceSummaryResponse {
	resp := BalanceSummaryResponse{
		UserID:          s.UserID,
		TotalOwedToUser: s.TotalOwedToUser,
		TotalUserOwes:   s.TotalUserOwes,
		NetBalance:      s.NetBalance,
		OwedToUser:      make([]CounterpartyAmountResponse, 0, len(s.OwedToUser)),
		UserOwes:        make([]CounterpartyAmountResponse, 0, len(s.UserOwes)),
	}
	for _, c := range s.OwedToUser {
		resp.OwedToUser = append(resp.OwedToUser, CounterpartyAmountResponse{UserID: c.UserID, Amount: c.Amount})
	}
	for _, c := range s.UserOwes {
		resp.UserOwes = append(resp.UserOwes, CounterpartyAmountResponse{UserID: c.UserID, Amount: c.Amount})
	}
	return resp
}

// LedgerEntryResponse is one row of a user's ledger history.
type LedgerEntryResponse struct {
	EntryID        string          `json:"entryID"`
	CounterpartyID string          `json:"counterpartyID"`
	Amount         decimal.Decimal `json:"amount"`
	EventID        string          `json:"eventID"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToLedgerEntryResponses converts domain entries to history rows.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = LedgerEntryResponse{
			EntryID:        e.EntryID,
			CounterpartyID: e.CounterpartyID,
			Amount:         e.Amount,
			EventID:        e.EventID,
			Note:           e.Note,
			CreatedAt:      e.CreatedAt,
		}
	}
	return responses
}

// TransferResponse is one suggested payment in a settlement plan.
type TransferResponse struct {
	FromUserID string          `json:"fromUserID"`
	ToUserID   string          `json:"toUserID"`
	Amount     decimal.Decimal `json:"amount"`
}

// SettlementPlanResponse is an ordered list of transfers that would zero
// out the balances captured in the snapshot the plan was computed from.
type SettlementPlanResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	Count     int                `json:"count"`
}

// ToSettlementPlanResponse converts reconciler output to its response DTO.
func ToSettlementPlanResponse(transfers []domain.Transfer) SettlementPlanResponse {
	resp := SettlementPlanResponse{
		Transfers: make([]TransferResponse, len(transfers)),
		Count:     len(transfers),
	}
	for i, t := range transfers {
		resp.Transfers[i] = TransferResponse{
			FromUserID: t.FromUserID,
			ToUserID:   t.ToUserID,
			Amount:     t.Amount,
		}
	}
	return resp
}
