package service

import (
	"context"

	"loanctl/internal/database"
	"loanctl/internal/model"
	"loanctl/internal/store"

	"github.com/shopspring/decimal"
)

var (
	createPayment      = store.CreatePayment
	listPaymentsByLoan = store.ListPaymentsByLoan
)

// Recorder 寫入與查詢還款紀錄；紀錄寫入後不可變更
type Recorder struct {
	db database.DB
}

func NewRecorder(db database.DB) *Recorder {
	return &Recorder{db: db}
}

// RecordPayment 必須以與餘額更新相同的交易 q 呼叫
func (r *Recorder) RecordPayment(ctx context.Context, q database.Querier, loanID int64, amount decimal.Decimal) (model.Payment, error) {
	if !amount.IsPositive() {
		return model.Payment{}, ErrInvalidAmount
	}
	p, err := createPayment(ctx, q, &model.Payment{LoanID: loanID, Amount: amount})
	if err != nil {
		return model.Payment{}, persistErr("RecordPayment", err)
	}
	return *p, nil
}

// History 依時間倒序回傳還款紀錄；沒有紀錄時回傳空 slice
func (r *Recorder) History(ctx context.Context, loanID int64) ([]model.Payment, error) {
	payments, err := listPaymentsByLoan(ctx, r.db, loanID)
	if err != nil {
		return nil, persistErr("History", err)
	}
	return payments, nil
}
