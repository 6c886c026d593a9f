package domain

import "github.com/shopspring/decimal"

// SplitPolicy is the closed set of rules governing how an expense total is
// divided among participants.
type SplitPolicy string

const (
	SplitEqual      SplitPolicy = "EQUAL"
	SplitUnequal    SplitPolicy = "UNEQUAL"
	SplitPercentage SplitPolicy = "PERCENTAGE"
	SplitShares     SplitPolicy = "SHARES"
)

// IsValid reports whether p is one of the known split policies.
func (p SplitPolicy) IsValid() bool {
	switch p {
	case SplitEqual, SplitUnequal, SplitPercentage, SplitShares:
		return true
	}
	return false
}

// UserAmount is an exact amount assigned to one participant (UNEQUAL split).
type UserAmount struct {
	UserID string          `json:"userID"`
	Amount decimal.Decimal `json:"amount"`
}

// UserPercentage is a percentage of the total assigned to one participant
// (PERCENTAGE split).
type UserPercentage struct {
	UserID     string          `json:"userID"`
	Percentage decimal.Decimal `json:"percentage"`
}

// UserShareCount is a positive integer share weight for one participant
// (SHARES split).
type UserShareCount struct {
	UserID string `json:"userID"`
	Shares int64  `json:"shares"`
}

// SplitInput carries the per-policy inputs for a split calculation.
// Exactly one variant field is consulted, selected by Policy; slices rather
// than maps so that remainder distribution is deterministic in caller order.
type SplitInput struct {
	Policy SplitPolicy

	// Participants is used by EQUAL, and optionally by PERCENTAGE as the
	// full participant pool for hybrid splits (unnamed participants evenly
	// absorb the percentage remainder).
	Participants []string

	Amounts     []UserAmount     // UNEQUAL
	Percentages []UserPercentage // PERCENTAGE
	Shares      []UserShareCount // SHARES
}

// SplitShare is the computed obligation of one participant for an expense.
// Percentage and ShareCount retain enough of the originating policy to
// reconstruct it for display.
type SplitShare struct {
	UserID     string           `json:"userID"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	ShareCount *int64           `json:"shareCount,omitempty"`
}
