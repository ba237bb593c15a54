package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestWallet_CanAfford(t *testing.T) {
	w := &Wallet{CashBalance: dec("100000")}

	assert.True(t, w.CanAfford(dec("100000")))
	assert.True(t, w.CanAfford(dec("0.01")))
	assert.False(t, w.CanAfford(dec("100000.01")))
}

func TestHolding_BlendCostBasis(t *testing.T) {
	h := &Holding{Amount: dec("0.01"), AvgBuyPrice: dec("60000")}

	// (0.01*60000 + 0.01*70000) / 0.02 = 65000
	avg := h.BlendCostBasis(dec("0.01"), dec("70000"))
	assert.True(t, avg.Equal(dec("65000")), "got %s", avg)
}

func TestHolding_BlendCostBasis_EmptyPosition(t *testing.T) {
	h := &Holding{Amount: decimal.Zero, AvgBuyPrice: decimal.Zero}

	avg := h.BlendCostBasis(dec("2"), dec("1234.56"))
	assert.True(t, avg.Equal(dec("1234.56")), "got %s", avg)
}

func TestHolding_BlendCostBasis_NoDrift(t *testing.T) {
	// Repeated buys at the same price must never move the cost basis.
	h := &Holding{Amount: decimal.Zero, AvgBuyPrice: decimal.Zero}
	price := dec("0.07")
	for i := 0; i < 1000; i++ {
		h.AvgBuyPrice = h.BlendCostBasis(dec("0.003"), price)
		h.Amount = h.Amount.Add(dec("0.003"))
	}
	assert.True(t, h.AvgBuyPrice.Equal(price), "cost basis drifted to %s", h.AvgBuyPrice)
}

func TestTransactionType_Valid(t *testing.T) {
	assert.True(t, TransactionTypeBuy.Valid())
	assert.True(t, TransactionTypeSell.Valid())
	assert.True(t, TransactionTypeTransfer.Valid())
	assert.False(t, TransactionType("SHORT").Valid())
	assert.False(t, TransactionType("").Valid())
}
