package store

import (
	"context"
	"fmt"

	"loanctl/internal/database"
	"loanctl/internal/model"
)

// CreateUser 新增使用者；username 重複時回傳包裝後的 *pgconn.PgError (23505)
func CreateUser(ctx context.Context, q database.Querier, u *model.User) (*model.User, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO users (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		u.Username,
		u.PasswordHash,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

func GetUserByUsername(ctx context.Context, q database.Querier, username string) (*model.User, error) {
	row := q.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users WHERE username = $1`,
		username,
	)
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetUserByUsername: %w", err)
	}
	return u, nil
}
