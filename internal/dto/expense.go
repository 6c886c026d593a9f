package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

// ShareAmountRequest assigns an exact amount to one participant.
type ShareAmountRequest struct {
	UserID string          `json:"userID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SharePercentageRequest assigns a percentage of the total to one participant.
type SharePercentageRequest struct {
	UserID     string          `json:"userID" binding:"required"`
	Percentage decimal.Decimal `json:"percentage" binding:"required"`
}

// ShareCountRequest assigns an integer share weight to one participant.
type ShareCountRequest struct {
	UserID string `json:"userID" binding:"required"`
	Shares int64  `json:"shares" binding:"required,gt=0"`
}

// CreateExpenseRequest is the inbound command for recording a shared
// expense. Exactly one of the policy-specific fields is consulted, selected
// by Policy; the orchestration layer resolves display names to user ids
// before this request is built.
type CreateExpenseRequest struct {
	Description  string             `json:"description" binding:"required"`
	Amount       decimal.Decimal    `json:"amount" binding:"required"`
	CurrencyCode string             `json:"currencyCode" binding:"omitempty,len=3"`
	PayerID      string             `json:"payerID" binding:"required"`
	Policy       domain.SplitPolicy `json:"policy" binding:"required,splitpolicy"`
	ExpenseDate  *time.Time         `json:"expenseDate,omitempty"`

	Participants []string                 `json:"participants,omitempty"`
	Amounts      []ShareAmountRequest     `json:"amounts,omitempty"`
	Percentages  []SharePercentageRequest `json:"percentages,omitempty"`
	Shares       []ShareCountRequest      `json:"shares,omitempty"`
}

// ToSplitInput maps the request's policy-specific fields onto the domain
// split input, preserving caller order.
func (r CreateExpenseRequest) ToSplitInput() domain.SplitInput {
	input := domain.SplitInput{
		Policy:       r.Policy,
		Participants: r.Participants,
	}
	for _, a := range r.Amounts {
		input.Amounts = append(input.Amounts, domain.UserAmount{UserID: a.UserID, Amount: a.Amount})
	}
	for _, p := range r.Percentages {
		input.Percentages = append(input.Percentages, domain.UserPercentage{UserID: p.UserID, Percentage: p.Percentage})
	}
	for _, s := range r.Shares {
		input.Shares = append(input.Shares, domain.UserShareCount{UserID: s.UserID, Shares: s.Shares})
	}
	return input
}

// SplitShareResponse is the computed obligation of one participant.
type SplitShareResponse struct {
	UserID     string           `json:"userID"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	ShareCount *int64           `json:"shareCount,omitempty"`
}

// ExpenseResponse represents an expense with its split breakdown.
type ExpenseResponse struct {
	ExpenseID    string               `json:"expenseID"`
	Description  string               `json:"description"`
	Amount       decimal.Decimal      `json:"amount"`
	CurrencyCode string               `json:"currencyCode"`
	PayerID      string               `json:"payerID"`
	Policy       domain.SplitPolicy   `json:"policy"`
	Status       domain.ExpenseStatus `json:"status"`
	ExpenseDate  time.Time            `json:"expenseDate"`
	CreatedAt    time.Time            `json:"createdAt"`
	Shares       []SplitShareResponse `json:"shares,omitempty"`
}

// ToExpenseResponse converts a domain expense to its response DTO.
func ToExpenseResponse(e domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ExpenseID:    e.ExpenseID,
		Description:  e.Description,
		Amount:       e.Amount,
		CurrencyCode: e.CurrencyCode,
		PayerID:      e.PayerID,
		Policy:       e.Policy,
		Status:       e.Status,
		ExpenseDate:  e.ExpenseDate,
		CreatedAt:    e.CreatedAt,
	}
	for _, s := range e.Shares {
		resp.Shares = append(resp.Shares, SplitShareResponse{
			UserID:     s.UserID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
			ShareCount: s.ShareCount,
		})
	}
	return resp
}

// ToExpenseResponses converts a slice of domain expenses.
func ToExpenseResponses(expenses []domain.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = ToExpenseResponse(e)
	}
	return responses
}
