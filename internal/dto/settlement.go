package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

// CreateSettlementRequest is the inbound command for recording a manual
// transfer between two users.
type CreateSettlementRequest struct {
	FromUserID   string          `json:"fromUserID" binding:"required"`
	ToUserID     string          `json:"toUserID" binding:"required,nefield=FromUserID"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,len=3"`
	Note         string          `json:"note"`
	SettledAt    *time.Time      `json:"settledAt,omitempty"`
}

// SettlementResponse represents a recorded settlement.
type SettlementResponse struct {
	SettlementID string               `json:"settlementID"`
	FromUserID   string               `json:"fromUserID"`
	ToUserID     string               `json:"toUserID"`
	Amount       decimal.Decimal      `json:"amount"`
	CurrencyCode string               `json:"currencyCode"`
	Note         string               `json:"note,omitempty"`
	Status       domain.ExpenseStatus `json:"status"`
	SettledAt    time.Time            `json:"settledAt"`
}

// ToSettlementResponse converts a domain settlement to its response DTO.
func ToSettlementResponse(s domain.Settlement) SettlementResponse {
	return SettlementResponse{
		SettlementID: s.SettlementID,
		FromUserID:   s.FromUserID,
		ToUserID:     s.ToUserID,
		Amount:       s.Amount,
		CurrencyCode: s.CurrencyCode,
		Note:         s.Note,
		Status:       s.Status,
		SettledAt:    s.SettledAt,
	}
}

// ToSettlementResponses converts a slice of domain settlements.
func ToSettlementResponses(settlements []domain.Settlement) []SettlementResponse {
	responses := make([]SettlementResponse, len(settlements))
	for i, s := range settlements {
		responses[i] = ToSettlementResponse(s)
	}
	return responses
}
