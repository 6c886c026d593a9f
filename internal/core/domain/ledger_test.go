package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

func TestLedgerEntry_Mirror(t *testing.T) {
	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		EntryID:        "e1",
		OwnerID:        "alice",
		CounterpartyID: "bob",
		Amount:         decimal.NewFromFloat(120.50),
		EventID:        "exp-1",
		Note:           "Expense: Dinner",
		CreatedAt:      now,
	}

	mirror := entry.Mirror("e2")

	assert.Equal(t, "e2", mirror.EntryID)
	assert.Equal(t, "bob", mirror.OwnerID)
	assert.Equal(t, "alice", mirror.CounterpartyID)
	assert.True(t, mirror.Amount.Equal(decimal.NewFromFloat(-120.50)))
	assert.Equal(t, entry.EventID, mirror.EventID)
	assert.Equal(t, entry.Note, mirror.Note)
	assert.Equal(t, entry.CreatedAt, mirror.CreatedAt)

	// A pair always conserves: entry plus mirror is zero.
	assert.True(t, entry.Amount.Add(mirror.Amount).IsZero())

	// Mirroring twice returns to the original sign and parties.
	back := mirror.Mirror("e3")
	assert.Equal(t, entry.OwnerID, back.OwnerID)
	assert.True(t, entry.Amount.Equal(back.Amount))
}

func TestSplitPolicy_IsValid(t *testing.T) {
	assert.True(t, domain.SplitEqual.IsValid())
	assert.True(t, domain.SplitUnequal.IsValid())
	assert.True(t, domain.SplitPercentage.IsValid())
	assert.True(t, domain.SplitShares.IsValid())
	assert.False(t, domain.SplitPolicy("RANDOM").IsValid())
	assert.False(t, domain.SplitPolicy("").IsValid())
}
