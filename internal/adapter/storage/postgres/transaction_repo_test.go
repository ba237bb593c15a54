package postgres

import (
	"context"
	"testing"
	"time"

	"crypto-trading-sim/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(walletID uuid.UUID) *domain.Transaction {
	price := decimal.RequireFromString("60000")
	return &domain.Transaction{
		ID:        uuid.New(),
		WalletID:  walletID,
		Type:      domain.TransactionTypeBuy,
		Symbol:    "BTC",
		Amount:    decimal.RequireFromString("0.01"),
		Price:     &price,
		Total:     decimal.RequireFromString("600"),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transactionColumns() []string {
	return []string{"id", "wallet_id", "type", "symbol", "amount", "price", "total", "counterparty_wallet_id", "created_at"}
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.WalletID, txn.Type, txn.Symbol,
			txn.Amount, txn.Price, txn.Total, txn.CounterpartyWalletID, txn.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()
	buy := newTestTransaction(walletID)
	sell := newTestTransaction(walletID)
	sell.Type = domain.TransactionTypeSell

	rows := pgxmock.NewRows(transactionColumns()).
		AddRow(sell.ID, sell.WalletID, sell.Type, sell.Symbol,
			sell.Amount, sell.Price, sell.Total, sell.CounterpartyWalletID, sell.CreatedAt).
		AddRow(buy.ID, buy.WalletID, buy.Type, buy.Symbol,
			buy.Amount, buy.Price, buy.Total, buy.CounterpartyWalletID, buy.CreatedAt)

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE wallet_id .+ ORDER BY created_at DESC").
		WithArgs(walletID).
		WillReturnRows(rows)

	result, err := repo.ListByWallet(context.Background(), walletID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, domain.TransactionTypeSell, result[0].Type)
	assert.Equal(t, domain.TransactionTypeBuy, result[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWallet_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE wallet_id").
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows(transactionColumns()))

	result, err := repo.ListByWallet(context.Background(), walletID)
	assert.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()

	rows := pgxmock.NewRows([]string{"total_bought", "total_sold", "trading_volume", "transaction_count"}).
		AddRow(
			decimal.RequireFromString("1300"),
			decimal.RequireFromString("1600"),
			decimal.RequireFromString("2900"),
			int64(3),
		)

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE wallet_id").
		WithArgs(walletID).
		WillReturnRows(rows)

	stats, err := repo.GetStats(context.Background(), walletID)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.True(t, stats.TotalBought.Equal(decimal.RequireFromString("1300")))
	assert.True(t, stats.TotalSold.Equal(decimal.RequireFromString("1600")))
	assert.True(t, stats.TradingVolume.Equal(decimal.RequireFromString("2900")))
	assert.Equal(t, int64(3), stats.TransactionCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
