package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of ledger operation a record captures.
type TransactionType string

const (
	TransactionTypeBuy      TransactionType = "BUY"
	TransactionTypeSell     TransactionType = "SELL"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Valid reports whether t is one of the known ledger operation kinds.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeBuy, TransactionTypeSell, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction is an immutable, append-only record of one ledger
// operation. Price is nil for pure asset transfers, which have no
// priced leg; Total is amount * price (zero for transfers).
type Transaction struct {
	ID                   uuid.UUID        `json:"id"`
	WalletID             uuid.UUID        `json:"wallet_id"`
	Type                 TransactionType  `json:"type"`
	Symbol               string           `json:"symbol"`
	Amount               decimal.Decimal  `json:"amount"`
	Price                *decimal.Decimal `json:"price,omitempty"`
	Total                decimal.Decimal  `json:"total"`
	CounterpartyWalletID *uuid.UUID       `json:"counterparty_wallet_id,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
}
