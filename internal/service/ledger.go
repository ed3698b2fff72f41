package service

import (
	"context"
	"errors"

	"loanctl/internal/database"
	"loanctl/internal/model"
	"loanctl/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	createLoan        = store.CreateLoan
	listLoansByUser   = store.ListLoansByUser
	getLoanForUser    = store.GetLoanForUser
	lockLoanForUser   = store.LockLoanForUser
	updateLoanBalance = store.UpdateLoanBalance
)

// Ledger 管理借款本金與餘額。
// 餘額只會經由 ApplyPayment 減少，且永遠落在 [0, principal]。
type Ledger struct {
	db       database.DB
	recorder *Recorder
	log      zerolog.Logger
}

func NewLedger(db database.DB, recorder *Recorder, log zerolog.Logger) *Ledger {
	return &Ledger{db: db, recorder: recorder, log: log.With().Str("component", "ledger").Logger()}
}

// OpenLoan 建立 balance = principal = amount 的借款
func (l *Ledger) OpenLoan(ctx context.Context, userID int64, amount decimal.Decimal) (int64, error) {
	if err := ValidateAmount(amount); err != nil {
		return 0, err
	}
	loan, err := createLoan(ctx, l.db, &model.Loan{UserID: userID, Principal: amount})
	if err != nil {
		return 0, persistErr("OpenLoan", err)
	}
	l.log.Debug().
		Int64("user_id", userID).
		Int64("loan_id", loan.ID).
		Str("principal", amount.StringFixed(2)).
		Msg("loan opened")
	return loan.ID, nil
}

// ListActiveLoans 只列出 balance > 0 的借款
func (l *Ledger) ListActiveLoans(ctx context.Context, userID int64) ([]model.Loan, error) {
	loans, err := listLoansByUser(ctx, l.db, userID, true)
	if err != nil {
		return nil, persistErr("ListActiveLoans", err)
	}
	return loans, nil
}

func (l *Ledger) ListAllLoans(ctx context.Context, userID int64) ([]model.Loan, error) {
	loans, err := listLoansByUser(ctx, l.db, userID, false)
	if err != nil {
		return nil, persistErr("ListAllLoans", err)
	}
	return loans, nil
}

// GetBalance 借款不存在或不屬於該使用者時回傳 ErrLoanNotFound
func (l *Ledger) GetBalance(ctx context.Context, loanID, userID int64) (decimal.Decimal, error) {
	loan, err := getLoanForUser(ctx, l.db, loanID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrLoanNotFound
		}
		return decimal.Zero, persistErr("GetBalance", err)
	}
	return loan.Balance, nil
}

// ApplyPayment 在同一個交易內鎖定借款、扣減餘額並寫入還款紀錄。
// 超過餘額的部分不收，實際金額見 PaymentResult.Payment.Amount。
func (l *Ledger) ApplyPayment(ctx context.Context, loanID, userID int64, amount decimal.Decimal) (model.PaymentResult, error) {
	if err := ValidateAmount(amount); err != nil {
		return model.PaymentResult{}, err
	}

	var res model.PaymentResult
	err := pgx.BeginFunc(ctx, l.db, func(tx pgx.Tx) error {
		loan, err := lockLoanForUser(ctx, tx, loanID, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrLoanNotFound
			}
			return persistErr("ApplyPayment", err)
		}

		applied, newBalance, clamped, err := clampPayment(loan.Balance, amount)
		if err != nil {
			return err
		}

		if err := updateLoanBalance(ctx, tx, loanID, newBalance); err != nil {
			return persistErr("ApplyPayment", err)
		}

		payment, err := l.recorder.RecordPayment(ctx, tx, loanID, applied)
		if err != nil {
			return err
		}

		res = model.PaymentResult{
			Payment:    payment,
			Requested:  amount,
			NewBalance: newBalance,
			Clamped:    clamped,
			FullyPaid:  newBalance.IsZero(),
		}
		return nil
	})
	if err != nil {
		return model.PaymentResult{}, classify("ApplyPayment", err)
	}

	l.log.Debug().
		Int64("loan_id", loanID).
		Str("applied", res.Payment.Amount.StringFixed(2)).
		Str("balance", res.NewBalance.StringFixed(2)).
		Bool("clamped", res.Clamped).
		Msg("payment applied")
	return res, nil
}
