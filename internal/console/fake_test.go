package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"loanctl/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	RegisterFn     func(ctx context.Context, username, password string) (int64, error)
	AuthenticateFn func(ctx context.Context, username, password string) (int64, error)
}

func (f *fakeAuth) Register(ctx context.Context, username, password string) (int64, error) {
	if f.RegisterFn == nil {
		panic("RegisterFn not set")
	}
	return f.RegisterFn(ctx, username, password)
}

func (f *fakeAuth) Authenticate(ctx context.Context, username, password string) (int64, error) {
	if f.AuthenticateFn == nil {
		panic("AuthenticateFn not set")
	}
	return f.AuthenticateFn(ctx, username, password)
}

type fakeLoans struct {
	OpenLoanFn        func(ctx context.Context, userID int64, amount decimal.Decimal) (int64, error)
	ListActiveLoansFn func(ctx context.Context, userID int64) ([]model.Loan, error)
	ListAllLoansFn    func(ctx context.Context, userID int64) ([]model.Loan, error)
	GetBalanceFn      func(ctx context.Context, loanID, userID int64) (decimal.Decimal, error)
	ApplyPaymentFn    func(ctx context.Context, loanID, userID int64, amount decimal.Decimal) (model.PaymentResult, error)
	HistoryFn         func(ctx context.Context, loanID int64) ([]model.Payment, error)
}

func (f *fakeLoans) OpenLoan(ctx context.Context, userID int64, amount decimal.Decimal) (int64, error) {
	if f.OpenLoanFn == nil {
		panic("OpenLoanFn not set")
	}
	return f.OpenLoanFn(ctx, userID, amount)
}

func (f *fakeLoans) ListActiveLoans(ctx context.Context, userID int64) ([]model.Loan, error) {
	if f.ListActiveLoansFn == nil {
		panic("ListActiveLoansFn not set")
	}
	return f.ListActiveLoansFn(ctx, userID)
}

func (f *fakeLoans) ListAllLoans(ctx context.Context, userID int64) ([]model.Loan, error) {
	if f.ListAllLoansFn == nil {
		panic("ListAllLoansFn not set")
	}
	return f.ListAllLoansFn(ctx, userID)
}

func (f *fakeLoans) GetBalance(ctx context.Context, loanID, userID int64) (decimal.Decimal, error) {
	if f.GetBalanceFn == nil {
		panic("GetBalanceFn not set")
	}
	return f.GetBalanceFn(ctx, loanID, userID)
}

func (f *fakeLoans) ApplyPayment(ctx context.Context, loanID, userID int64, amount decimal.Decimal) (model.PaymentResult, error) {
	if f.ApplyPaymentFn == nil {
		panic("ApplyPaymentFn not set")
	}
	return f.ApplyPaymentFn(ctx, loanID, userID, amount)
}

func (f *fakeLoans) History(ctx context.Context, loanID int64) ([]model.Payment, error) {
	if f.HistoryFn == nil {
		panic("HistoryFn not set")
	}
	return f.HistoryFn(ctx, loanID)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// loggedIn 讓 Authenticate 一律成功並回傳 userID
func loggedIn(userID int64) *fakeAuth {
	return &fakeAuth{
		AuthenticateFn: func(context.Context, string, string) (int64, error) { return userID, nil },
	}
}

// runScript 以多行輸入跑完整個 session，回傳畫面輸出
func runScript(t *testing.T, auth Authenticator, loans *fakeLoans, lines ...string) string {
	t.Helper()
	return runScriptCtx(t, context.Background(), auth, loans, lines...)
}

func runScriptCtx(t *testing.T, ctx context.Context, auth Authenticator, loans *fakeLoans, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(auth, loans, loans, Options{
		In:  strings.NewReader(strings.Join(lines, "\n") + "\n"),
		Out: &out,
		Log: zerolog.Nop(),
	})
	require.NoError(t, s.Run(ctx))
	return out.String()
}
