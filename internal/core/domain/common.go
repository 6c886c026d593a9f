package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"` // UserID reference
}

// MinorUnitPlaces is the number of fractional digits carried by every
// monetary amount in the system (minor currency units, e.g. paise).
const MinorUnitPlaces = 2

// Epsilon is the tolerance below which a monetary amount is treated as zero:
// one minor currency unit.
var Epsilon = decimal.New(1, -MinorUnitPlaces)
