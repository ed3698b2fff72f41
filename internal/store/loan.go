package store

import (
	"context"
	"fmt"

	"loanctl/internal/database"
	"loanctl/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const loanColumns = `id, user_id, loan_amount, balance, created_at`

// CreateLoan 以 Principal 同時作為初始餘額
func CreateLoan(ctx context.Context, q database.Querier, l *model.Loan) (*model.Loan, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO loans (user_id, loan_amount, balance)
		 VALUES ($1, $2, $2)
		 RETURNING id, balance, created_at`,
		l.UserID,
		l.Principal,
	)
	if err := row.Scan(&l.ID, &l.Balance, &l.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateLoan: %w", err)
	}
	return l, nil
}

// ListLoansByUser 依 id 排序；activeOnly 時只回傳 balance > 0 的借款
func ListLoansByUser(ctx context.Context, q database.Querier, userID int64, activeOnly bool) ([]model.Loan, error) {
	sql := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1`
	if activeOnly {
		sql += ` AND balance > 0`
	}
	sql += ` ORDER BY id`

	rows, err := q.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("ListLoansByUser: %w", err)
	}
	defer rows.Close()

	loans := []model.Loan{}
	for rows.Next() {
		var l model.Loan
		if err := scanLoan(rows, &l); err != nil {
			return nil, fmt.Errorf("ListLoansByUser: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListLoansByUser: %w", err)
	}
	return loans, nil
}

// GetLoanForUser 查不到或不屬於該使用者時回傳包裝後的 pgx.ErrNoRows
func GetLoanForUser(ctx context.Context, q database.Querier, loanID, userID int64) (*model.Loan, error) {
	row := q.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 AND user_id = $2`,
		loanID,
		userID,
	)
	l := &model.Loan{}
	if err := scanLoan(row, l); err != nil {
		return nil, fmt.Errorf("GetLoanForUser: %w", err)
	}
	return l, nil
}

// LockLoanForUser 與 GetLoanForUser 相同，但以 FOR UPDATE 鎖住該列；必須在交易內呼叫
func LockLoanForUser(ctx context.Context, q database.Querier, loanID, userID int64) (*model.Loan, error) {
	row := q.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		loanID,
		userID,
	)
	l := &model.Loan{}
	if err := scanLoan(row, l); err != nil {
		return nil, fmt.Errorf("LockLoanForUser: %w", err)
	}
	return l, nil
}

func UpdateLoanBalance(ctx context.Context, q database.Querier, loanID int64, balance decimal.Decimal) error {
	tag, err := q.Exec(ctx,
		`UPDATE loans SET balance = $1 WHERE id = $2`,
		balance,
		loanID,
	)
	if err != nil {
		return fmt.Errorf("UpdateLoanBalance: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("UpdateLoanBalance: %w", pgx.ErrNoRows)
	}
	return nil
}

func scanLoan(row pgx.Row, l *model.Loan) error {
	return row.Scan(
		&l.ID,
		&l.UserID,
		&l.Principal,
		&l.Balance,
		&l.CreatedAt,
	)
}
