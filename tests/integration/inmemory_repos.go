package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"crypto-trading-sim/internal/core/domain"
	"crypto-trading-sim/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, tx pgx.Tx, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return fmt.Errorf("user already exists")
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *inMemoryUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets[w.ID] = *w
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.UserID == userID {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.CashBalance = balance
	r.wallets[walletID] = w
	return nil
}

// --- In-Memory Holding Repo ---

type inMemoryHoldingRepo struct {
	mu       sync.RWMutex
	holdings map[uuid.UUID]domain.Holding
}

func newInMemoryHoldingRepo() *inMemoryHoldingRepo {
	return &inMemoryHoldingRepo{holdings: make(map[uuid.UUID]domain.Holding)}
}

func (r *inMemoryHoldingRepo) Create(ctx context.Context, tx pgx.Tx, h *domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.holdings {
		if existing.WalletID == h.WalletID && existing.Symbol == h.Symbol {
			return fmt.Errorf("holding already exists")
		}
	}
	r.holdings[h.ID] = *h
	return nil
}

func (r *inMemoryHoldingRepo) GetBySymbol(ctx context.Context, walletID uuid.UUID, symbol string) (*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.holdings {
		if h.WalletID == walletID && h.Symbol == symbol {
			h := h
			return &h, nil
		}
	}
	return nil, nil
}

func (r *inMemoryHoldingRepo) GetBySymbolForUpdate(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, symbol string) (*domain.Holding, error) {
	return r.GetBySymbol(ctx, walletID, symbol)
}

func (r *inMemoryHoldingRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Holding
	for _, h := range r.holdings {
		if h.WalletID == walletID {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Symbol < result[j].Symbol })
	return result, nil
}

func (r *inMemoryHoldingRepo) Update(ctx context.Context, tx pgx.Tx, h *domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holdings[h.ID]; !ok {
		return fmt.Errorf("holding not found")
	}
	r.holdings[h.ID] = *h
	return nil
}

func (r *inMemoryHoldingRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holdings[id]; !ok {
		return fmt.Errorf("holding not found")
	}
	delete(r.holdings, id)
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *inMemoryTransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	// Newest first, matching the SQL ORDER BY created_at DESC.
	var result []domain.Transaction
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].WalletID == walletID {
			result = append(result, r.transactions[i])
		}
	}
	return result, nil
}

func (r *inMemoryTransactionRepo) GetStats(ctx context.Context, walletID uuid.UUID) (*ports.TransactionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.TransactionStats{
		TotalBought:   decimal.Zero,
		TotalSold:     decimal.Zero,
		TradingVolume: decimal.Zero,
	}
	for _, t := range r.transactions {
		if t.WalletID != walletID {
			continue
		}
		stats.TransactionCount++
		stats.TradingVolume = stats.TradingVolume.Add(t.Total)
		switch t.Type {
		case domain.TransactionTypeBuy:
			stats.TotalBought = stats.TotalBought.Add(t.Total)
		case domain.TransactionTypeSell:
			stats.TotalSold = stats.TotalSold.Add(t.Total)
		}
	}
	return stats, nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transaction blocks with one global
// mutex, standing in for the per-row locks the real database takes.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &lockTx{release: &t.mu}, nil
}

// lockTx holds the transactor lock until Commit or Rollback.
type lockTx struct {
	release *sync.Mutex
	once    sync.Once
}

func (t *lockTx) done() {
	t.once.Do(func() { t.release.Unlock() })
}

func (t *lockTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *lockTx) Commit(ctx context.Context) error          { t.done(); return nil }
func (t *lockTx) Rollback(ctx context.Context) error        { t.done(); return nil }
func (t *lockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *lockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *lockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *lockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *lockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *lockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *lockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *lockTx) Conn() *pgx.Conn { return nil }
