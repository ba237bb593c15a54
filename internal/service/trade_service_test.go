package service

import (
	"context"
	"errors"
	"testing"

	"crypto-trading-sim/internal/core/domain"
	"crypto-trading-sim/internal/core/ports"
	"crypto-trading-sim/internal/core/ports/mocks"
	"crypto-trading-sim/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type tradeTestDeps struct {
	svc         *TradeServiceImpl
	walletRepo  *mocks.MockWalletRepository
	holdingRepo *mocks.MockHoldingRepository
	txRepo      *mocks.MockTransactionRepository
	oracle      *mocks.MockPriceOracle
	transactor  *mocks.MockDBTransactor
	ctrl        *gomock.Controller
}

func setupTradeService(t *testing.T) *tradeTestDeps {
	ctrl := gomock.NewController(t)
	d := &tradeTestDeps{
		walletRepo:  mocks.NewMockWalletRepository(ctrl),
		holdingRepo: mocks.NewMockHoldingRepository(ctrl),
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		oracle:      mocks.NewMockPriceOracle(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewTradeService(
		d.walletRepo, d.holdingRepo, d.txRepo,
		d.oracle, d.transactor, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}

// ==================== Buy Tests ====================

func TestTradeService_Buy_FirstPurchase(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	req := ports.TradeRequest{WalletID: walletID, Symbol: "BTC", Amount: dec("0.01")}

	d.oracle.EXPECT().GetPrice(ctx, "BTC").Return(dec("60000"), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(&domain.Wallet{
		ID:          walletID,
		CashBalance: dec("100000"),
	}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, walletID, "BTC").Return(nil, nil)
	d.holdingRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, h *domain.Holding) error {
			assert.True(t, h.Amount.Equal(dec("0.01")))
			assert.True(t, h.AvgBuyPrice.Equal(dec("60000")))
			return nil
		})
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, _ uuid.UUID, balance decimal.Decimal) error {
			assert.True(t, balance.Equal(dec("99400")))
			return nil
		})
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	result, err := d.svc.Buy(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.NewCashBalance.Equal(dec("99400")))
	assert.Equal(t, domain.TransactionTypeBuy, result.Transaction.Type)
	assert.True(t, result.Transaction.Total.Equal(dec("600")))
	require.NotNil(t, result.Holding)
	assert.True(t, result.Holding.AvgBuyPrice.Equal(dec("60000")))
}

func TestTradeService_Buy_BlendsAveragePrice(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	req := ports.TradeRequest{WalletID: walletID, Symbol: "BTC", Amount: dec("0.01")}

	d.oracle.EXPECT().GetPrice(ctx, "BTC").Return(dec("70000"), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(&domain.Wallet{
		ID:          walletID,
		CashBalance: dec("99400"),
	}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, walletID, "BTC").Return(&domain.Holding{
		ID:          uuid.New(),
		WalletID:    walletID,
		Symbol:      "BTC",
		Amount:      dec("0.01"),
		AvgBuyPrice: dec("60000"),
	}, nil)
	d.holdingRepo.EXPECT().Update(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, h *domain.Holding) error {
			assert.True(t, h.Amount.Equal(dec("0.02")))
			assert.True(t, h.AvgBuyPrice.Equal(dec("65000")))
			return nil
		})
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, _ uuid.UUID, balance decimal.Decimal) error {
			assert.True(t, balance.Equal(dec("98700")))
			return nil
		})
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	result, err := d.svc.Buy(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, result.Holding)
	assert.True(t, result.Holding.AvgBuyPrice.Equal(dec("65000")))
}

func TestTradeService_Buy_InvalidAmount(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	req := ports.TradeRequest{WalletID: uuid.New(), Symbol: "BTC", Amount: dec("0")}

	result, err := d.svc.Buy(context.Background(), req)
	assert.Nil(t, result)
	assertAppError(t, err, "TRD_002")
}

func TestTradeService_Buy_NegativeAmount(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	req := ports.TradeRequest{WalletID: uuid.New(), Symbol: "BTC", Amount: dec("-1")}

	result, err := d.svc.Buy(context.Background(), req)
	assert.Nil(t, result)
	assertAppError(t, err, "TRD_002")
}

func TestTradeService_Buy_InsufficientFunds(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	req := ports.TradeRequest{WalletID: walletID, Symbol: "BTC", Amount: dec("10")}

	d.oracle.EXPECT().GetPrice(ctx, "BTC").Return(dec("60000"), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(&domain.Wallet{
		ID:          walletID,
		CashBalance: dec("100000"),
	}, nil)

	result, err := d.svc.Buy(ctx, req)
	assert.Nil(t, result)
	assertAppError(t, err, "TRD_001")
}

func TestTradeService_Buy_WalletNotFound(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	req := ports.TradeRequest{WalletID: walletID, Symbol: "BTC", Amount: dec("1")}

	d.oracle.EXPECT().GetPrice(ctx, "BTC").Return(dec("60000"), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(nil, nil)

	result, err := d.svc.Buy(ctx, req)
	assert.Nil(t, result)
	assertAppError(t, err, "TRD_003")
}

func TestTradeService_Buy_OracleDown(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.TradeRequest{WalletID: uuid.New(), Symbol: "BTC", Amount: dec("1")}

	d.oracle.EXPECT().GetPrice(ctx, "BTC").
		Return(decimal.Zero, apperror.ErrPriceUnavailable(errors.New("connection refused")))

	result, err := d.svc.Buy(ctx, req)
	assert.Nil(t, result)
	assertAppError(t, err, "ORC_001")
}

func TestTradeService_Buy_ExactBalance(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	req := ports.TradeRequest{WalletID: walletID, Symbol: "ETH", Amount: dec("2")}

	d.oracle.EXPECT().GetPrice(ctx, "ETH").Return(dec("500"), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(&domain.Wallet{
		ID:          walletID,
		CashBalance: dec("1000"),
	}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, walletID, "ETH").Return(nil, nil)
	d.holdingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, _ uuid.UUID, balance decimal.Decimal) error {
			assert.True(t, balance.IsZero())
			return nil
		})
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	result, err := d.svc.Buy(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.NewCashBalance.IsZero())
}

// ==================== Sell Tests ====================

func TestTradeService_Sell_Partial(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	req := ports.TradeRequest{WalletID: walletID, Symbol: "BTC", Amount: dec("0.01")}

	d.oracle.EXPECT().GetPrice(ctx, "BTC").Return(dec("80000"), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(&domain.Wallet{
		ID:          walletID,
		CashBalance: dec("98700"),
	}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, walletID, "BTC").Return(&domain.Holding{
		ID:          uuid.New(),
		WalletID:    walletID,
		Symbol:      "BTC",
		Amount:      dec("0.02"),
		AvgBuyPrice: dec("65000"),
	}, nil)
	d.holdingRepo.EXPECT().Update(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, h *domain.Holding) error {
			assert.True(t, h.Amount.Equal(dec("0.01")))
			// Selling must not move the cost basis
			assert.True(t, h.AvgBuyPrice.Equal(dec("65000")))
			return nil
		})
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, _ uuid.UUID, balance decimal.Decimal) error {
			assert.True(t, balance.Equal(dec("99500")))
			return nil
		})
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	result, err := d.svc.Sell(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, result.Holding)
	assert.True(t, result.Holding.Amount.Equal(dec("0.01")))
}

func TestTradeService_Sell_FullPositionDeletesHolding(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	holdingID := uuid.New()
	tx := &mockTx{}

	req := ports.TradeRequest{WalletID: walletID, Symbol: "BTC", Amount: dec("0.02")}

	d.oracle.EXPECT().GetPrice(ctx, "BTC").Return(dec("80000"), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(&domain.Wallet{
		ID:          walletID,
		CashBalance: dec("98700"),
	}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, walletID, "BTC").Return(&domain.Holding{
		ID:          holdingID,
		WalletID:    walletID,
		Symbol:      "BTC",
		Amount:      dec("0.02"),
		AvgBuyPrice: dec("65000"),
	}, nil)
	d.holdingRepo.EXPECT().Delete(ctx, tx, holdingID).Return(nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, _ uuid.UUID, balance decimal.Decimal) error {
			assert.True(t, balance.Equal(dec("100300")))
			return nil
		})
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	result, err := d.svc.Sell(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, result.Holding, "depleted holding must not be returned")
	assert.True(t, result.NewCashBalance.Equal(dec("100300")))
}

func TestTradeService_Sell_HoldingNotFound(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	req := ports.TradeRequest{WalletID: walletID, Symbol: "DOGE", Amount: dec("5")}

	d.oracle.EXPECT().GetPrice(ctx, "DOGE").Return(dec("0.1"), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(&domain.Wallet{
		ID:          walletID,
		CashBalance: dec("100"),
	}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, walletID, "DOGE").Return(nil, nil)

	result, err := d.svc.Sell(ctx, req)
	assert.Nil(t, result)
	assertAppError(t, err, "TRD_003")
}

func TestTradeService_Sell_InsufficientHolding(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	req := ports.TradeRequest{WalletID: walletID, Symbol: "BTC", Amount: dec("0.05")}

	d.oracle.EXPECT().GetPrice(ctx, "BTC").Return(dec("80000"), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(&domain.Wallet{
		ID:          walletID,
		CashBalance: dec("98700"),
	}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, walletID, "BTC").Return(&domain.Holding{
		ID:       uuid.New(),
		WalletID: walletID,
		Symbol:   "BTC",
		Amount:   dec("0.02"),
	}, nil)

	result, err := d.svc.Sell(ctx, req)
	assert.Nil(t, result)
	assertAppError(t, err, "TRD_004")
}

// ==================== AdjustHolding Tests ====================

func TestTradeService_AdjustHolding_BuyWithSuppliedPrice(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	req := ports.AdjustmentRequest{
		WalletID: walletID,
		Symbol:   "ETH",
		Amount:   dec("1"),
		Price:    dec("2000"),
		Type:     domain.TransactionTypeBuy,
	}

	// No oracle call: caller supplies the price
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(&domain.Wallet{
		ID:          walletID,
		CashBalance: dec("5000"),
	}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, walletID, "ETH").Return(nil, nil)
	d.holdingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	result, err := d.svc.AdjustHolding(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.NewCashBalance.Equal(dec("3000")))
}

func TestTradeService_AdjustHolding_InvalidType(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	req := ports.AdjustmentRequest{
		WalletID: uuid.New(),
		Symbol:   "ETH",
		Amount:   dec("1"),
		Price:    dec("2000"),
		Type:     domain.TransactionTypeTransfer,
	}

	result, err := d.svc.AdjustHolding(context.Background(), req)
	assert.Nil(t, result)
	assertAppError(t, err, "TRD_002")
}

func TestTradeService_AdjustHolding_InvalidPrice(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	req := ports.AdjustmentRequest{
		WalletID: uuid.New(),
		Symbol:   "ETH",
		Amount:   dec("1"),
		Price:    dec("0"),
		Type:     domain.TransactionTypeBuy,
	}

	result, err := d.svc.AdjustHolding(context.Background(), req)
	assert.Nil(t, result)
	assertAppError(t, err, "TRD_002")
}

// ==================== Transfer Tests ====================

func TestTradeService_Transfer_Success(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	fromID := uuid.New()
	toID := uuid.New()
	tx := &mockTx{}

	req := ports.TransferRequest{
		FromWalletID: fromID,
		ToWalletID:   toID,
		Symbol:       "BTC",
		Amount:       dec("0.01"),
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	// Both wallets are locked; order depends on UUID comparison
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, fromID).Return(&domain.Wallet{
		ID:          fromID,
		CashBalance: dec("1000"),
	}, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, toID).Return(&domain.Wallet{
		ID:          toID,
		CashBalance: dec("500"),
	}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, fromID, "BTC").Return(&domain.Holding{
		ID:          uuid.New(),
		WalletID:    fromID,
		Symbol:      "BTC",
		Amount:      dec("0.02"),
		AvgBuyPrice: dec("65000"),
	}, nil)
	d.holdingRepo.EXPECT().Update(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, h *domain.Holding) error {
			assert.True(t, h.Amount.Equal(dec("0.01")))
			return nil
		})
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, toID, "BTC").Return(nil, nil)
	d.holdingRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, h *domain.Holding) error {
			assert.Equal(t, toID, h.WalletID)
			// Destination inherits the source cost basis
			assert.True(t, h.AvgBuyPrice.Equal(dec("65000")))
			return nil
		})
	// One TRANSFER record per wallet
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransactionTypeTransfer, txn.Type)
			assert.Nil(t, txn.Price)
			assert.True(t, txn.Total.IsZero())
			require.NotNil(t, txn.CounterpartyWalletID)
			return nil
		}).Times(2)

	err := d.svc.Transfer(ctx, req)
	assert.NoError(t, err)
}

func TestTradeService_Transfer_SelfTransfer(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	id := uuid.New()
	req := ports.TransferRequest{FromWalletID: id, ToWalletID: id, Symbol: "BTC", Amount: dec("1")}

	err := d.svc.Transfer(context.Background(), req)
	assertAppError(t, err, "TRD_005")
}

func TestTradeService_Transfer_InvalidAmount(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	req := ports.TransferRequest{FromWalletID: uuid.New(), ToWalletID: uuid.New(), Symbol: "BTC", Amount: dec("0")}

	err := d.svc.Transfer(context.Background(), req)
	assertAppError(t, err, "TRD_002")
}

func TestTradeService_Transfer_SourceHoldingMissing(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	fromID := uuid.New()
	toID := uuid.New()
	tx := &mockTx{}

	req := ports.TransferRequest{FromWalletID: fromID, ToWalletID: toID, Symbol: "SOL", Amount: dec("1")}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, fromID).Return(&domain.Wallet{ID: fromID}, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, toID).Return(&domain.Wallet{ID: toID}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, fromID, "SOL").Return(nil, nil)

	err := d.svc.Transfer(ctx, req)
	assertAppError(t, err, "TRD_003")
}

func TestTradeService_Transfer_DestinationWalletMissing(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	fromID := uuid.New()
	toID := uuid.New()
	tx := &mockTx{}

	req := ports.TransferRequest{FromWalletID: fromID, ToWalletID: toID, Symbol: "BTC", Amount: dec("1")}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, fromID).Return(&domain.Wallet{ID: fromID}, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, toID).Return(nil, nil)

	err := d.svc.Transfer(ctx, req)
	assertAppError(t, err, "TRD_003")
}

func TestTradeService_Transfer_FullBalanceDeletesSource(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	fromID := uuid.New()
	toID := uuid.New()
	srcHoldingID := uuid.New()
	tx := &mockTx{}

	req := ports.TransferRequest{FromWalletID: fromID, ToWalletID: toID, Symbol: "BTC", Amount: dec("0.02")}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, fromID).Return(&domain.Wallet{ID: fromID}, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, toID).Return(&domain.Wallet{ID: toID}, nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, fromID, "BTC").Return(&domain.Holding{
		ID:          srcHoldingID,
		WalletID:    fromID,
		Symbol:      "BTC",
		Amount:      dec("0.02"),
		AvgBuyPrice: dec("65000"),
	}, nil)
	d.holdingRepo.EXPECT().Delete(ctx, tx, srcHoldingID).Return(nil)
	d.holdingRepo.EXPECT().GetBySymbolForUpdate(ctx, tx, toID, "BTC").Return(nil, nil)
	d.holdingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil).Times(2)

	err := d.svc.Transfer(ctx, req)
	assert.NoError(t, err)
}
