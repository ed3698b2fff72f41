package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan 借款；Principal 建立後不變，Balance 只會因還款而減少
type Loan struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Principal decimal.Decimal `db:"loan_amount" json:"loan_amount"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Closed 餘額為 0 即視為已結清
func (l Loan) Closed() bool {
	return !l.Balance.IsPositive()
}
