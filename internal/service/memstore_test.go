package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"loanctl/internal/database"
	"loanctl/internal/model"
	"loanctl/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	hashPassword = HashPassword
	comparePassword = ComparePassword
	createUser = store.CreateUser
	getUserByUsername = store.GetUserByUsername
	createLoan = store.CreateLoan
	listLoansByUser = store.ListLoansByUser
	getLoanForUser = store.GetLoanForUser
	lockLoanForUser = store.LockLoanForUser
	updateLoanBalance = store.UpdateLoanBalance
	createPayment = store.CreatePayment
	listPaymentsByLoan = store.ListPaymentsByLoan
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// memStore 以記憶體取代 store 層，讓 service 測試不需資料庫
type memStore struct {
	users    map[string]model.User
	loans    map[int64]*model.Loan
	payments []model.Payment
	nextID   int64
	clock    time.Time
	txs      []*database.FakeTx
}

// installMemStore 覆寫 store 變數並回傳可開交易的 FakeDB
func installMemStore(t *testing.T) (*memStore, *database.FakeDB) {
	t.Helper()
	t.Cleanup(restoreGlobals)

	m := &memStore{
		users: map[string]model.User{},
		loans: map[int64]*model.Loan{},
		clock: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	hashPassword = func(p string) (string, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
		return string(h), err
	}
	createUser = func(_ context.Context, _ database.Querier, u *model.User) (*model.User, error) {
		if _, ok := m.users[u.Username]; ok {
			return nil, fmt.Errorf("CreateUser: %w", &pgconn.PgError{Code: "23505"})
		}
		u.ID = m.id()
		u.CreatedAt = m.now()
		m.users[u.Username] = *u
		return u, nil
	}
	getUserByUsername = func(_ context.Context, _ database.Querier, name string) (*model.User, error) {
		u, ok := m.users[name]
		if !ok {
			return nil, fmt.Errorf("GetUserByUsername: %w", pgx.ErrNoRows)
		}
		return &u, nil
	}
	createLoan = func(_ context.Context, _ database.Querier, l *model.Loan) (*model.Loan, error) {
		l.ID = m.id()
		l.Balance = l.Principal
		l.CreatedAt = m.now()
		cp := *l
		m.loans[l.ID] = &cp
		return l, nil
	}
	listLoansByUser = func(_ context.Context, _ database.Querier, userID int64, activeOnly bool) ([]model.Loan, error) {
		out := []model.Loan{}
		for _, l := range m.loans {
			if l.UserID != userID || (activeOnly && l.Closed()) {
				continue
			}
			out = append(out, *l)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	}
	getLoanForUser = func(_ context.Context, _ database.Querier, loanID, userID int64) (*model.Loan, error) {
		l, ok := m.loans[loanID]
		if !ok || l.UserID != userID {
			return nil, fmt.Errorf("GetLoanForUser: %w", pgx.ErrNoRows)
		}
		cp := *l
		return &cp, nil
	}
	lockLoanForUser = getLoanForUser
	updateLoanBalance = func(_ context.Context, _ database.Querier, loanID int64, balance decimal.Decimal) error {
		l, ok := m.loans[loanID]
		if !ok {
			return fmt.Errorf("UpdateLoanBalance: %w", pgx.ErrNoRows)
		}
		if balance.IsNegative() || balance.GreaterThan(l.Principal) {
			return fmt.Errorf("UpdateLoanBalance: %w", &pgconn.PgError{Code: "23514"})
		}
		l.Balance = balance
		return nil
	}
	createPayment = func(_ context.Context, _ database.Querier, p *model.Payment) (*model.Payment, error) {
		p.ID = m.id()
		p.PaidAt = m.now()
		m.payments = append(m.payments, *p)
		return p, nil
	}
	listPaymentsByLoan = func(_ context.Context, _ database.Querier, loanID int64) ([]model.Payment, error) {
		out := []model.Payment{}
		for _, p := range m.payments {
			if p.LoanID == loanID {
				out = append(out, p)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].PaidAt.Equal(out[j].PaidAt) {
				return out[i].ID > out[j].ID
			}
			return out[i].PaidAt.After(out[j].PaidAt)
		})
		return out, nil
	}

	db := &database.FakeDB{
		BeginFn: func(context.Context) (pgx.Tx, error) {
			tx := &database.FakeTx{}
			m.txs = append(m.txs, tx)
			return tx, nil
		},
	}
	return m, db
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) now() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) paymentsFor(loanID int64) []model.Payment {
	var out []model.Payment
	for _, p := range m.payments {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out
}
