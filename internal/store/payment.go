package store

import (
	"context"
	"fmt"

	"loanctl/internal/database"
	"loanctl/internal/model"
)

// CreatePayment 新增還款紀錄，payment_date 由資料庫指定
func CreatePayment(ctx context.Context, q database.Querier, p *model.Payment) (*model.Payment, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO payments (loan_id, payment_amount)
		 VALUES ($1, $2)
		 RETURNING id, payment_date`,
		p.LoanID,
		p.Amount,
	)
	if err := row.Scan(&p.ID, &p.PaidAt); err != nil {
		return nil, fmt.Errorf("CreatePayment: %w", err)
	}
	return p, nil
}

// ListPaymentsByLoan 最新的在前；同一時間戳以 id 倒序
func ListPaymentsByLoan(ctx context.Context, q database.Querier, loanID int64) ([]model.Payment, error) {
	rows, err := q.Query(ctx,
		`SELECT id, loan_id, payment_amount, payment_date
		 FROM payments
		 WHERE loan_id = $1
		 ORDER BY payment_date DESC, id DESC`,
		loanID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListPaymentsByLoan: %w", err)
	}
	defer rows.Close()

	payments := []model.Payment{}
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.Amount, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("ListPaymentsByLoan: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPaymentsByLoan: %w", err)
	}
	return payments, nil
}
