package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID     int64           `db:"id" json:"id"`
	LoanID int64           `db:"loan_id" json:"loan_id"`
	Amount decimal.Decimal `db:"payment_amount" json:"payment_amount"`
	PaidAt time.Time       `db:"payment_date" json:"payment_date"`
}

// PaymentResult 描述一次還款的結果
type PaymentResult struct {
	Payment Payment
	// Requested 使用者輸入的金額；超過餘額時 Payment.Amount 會被壓到餘額
	Requested  decimal.Decimal
	NewBalance decimal.Decimal
	Clamped    bool
	FullyPaid  bool
}
