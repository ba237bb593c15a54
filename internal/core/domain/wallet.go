package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is the aggregate root for all trading state: simulated cash
// plus the holdings and transaction log hanging off it.
// Invariant: CashBalance >= 0 at all times.
type Wallet struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CanAfford reports whether the wallet's cash covers the given cost.
func (w *Wallet) CanAfford(cost decimal.Decimal) bool {
	return w.CashBalance.GreaterThanOrEqual(cost)
}
