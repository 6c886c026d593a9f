package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one side of a mirrored double-entry pair between two users.
// Entries are immutable once created; corrections are posted as new entries
// with inverted sign and the same event id.
//
// Sign convention: positive means the counterparty owes the owner, negative
// means the owner owes the counterparty.
type LedgerEntry struct {
	EntryID        string          `json:"entryID"`        // Primary Key (UUID)
	OwnerID        string          `json:"ownerID"`        // Perspective user
	CounterpartyID string          `json:"counterpartyID"` // The other side of the pair
	Amount         decimal.Decimal `json:"amount"`         // Signed
	EventID        string          `json:"eventID"`        // Originating expense or settlement id
	Note           string          `json:"note"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Mirror returns the sibling entry of e: same event, swapped parties,
// negated amount. Every posting persists an entry together with its mirror.
func (e LedgerEntry) Mirror(entryID string) LedgerEntry {
	return LedgerEntry{
		EntryID:        entryID,
		OwnerID:        e.CounterpartyID,
		CounterpartyID: e.OwnerID,
		Amount:         e.Amount.Neg(),
		EventID:        e.EventID,
		Note:           e.Note,
		CreatedAt:      e.CreatedAt,
	}
}
