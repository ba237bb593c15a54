package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding is a position in one symbol owned by a wallet.
// At most one Holding exists per (wallet, symbol); a holding whose
// amount depletes to exactly zero is deleted, never kept as a zero row.
type Holding struct {
	ID          uuid.UUID       `json:"id"`
	WalletID    uuid.UUID       `json:"wallet_id"`
	Symbol      string          `json:"symbol"`
	Amount      decimal.Decimal `json:"amount"`
	AvgBuyPrice decimal.Decimal `json:"avg_buy_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BlendCostBasis recomputes the quantity-weighted average buy price
// after acquiring `amount` more units at `price`. The blend is exact
// decimal arithmetic; it never touches the market price.
func (h *Holding) BlendCostBasis(amount, price decimal.Decimal) decimal.Decimal {
	newAmount := h.Amount.Add(amount)
	if newAmount.IsZero() {
		return decimal.Zero
	}
	existing := h.Amount.Mul(h.AvgBuyPrice)
	acquired := amount.Mul(price)
	return existing.Add(acquired).Div(newAmount)
}
