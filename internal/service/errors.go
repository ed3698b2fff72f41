package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrLoanNotFound       = errors.New("loan not found")
	ErrLoanAlreadyClosed  = errors.New("loan already fully paid")
	ErrPersistence        = errors.New("persistence error")
)

// domainErrors 為已分類的錯誤，不再包上 ErrPersistence
var domainErrors = []error{
	ErrDuplicateUsername,
	ErrInvalidCredentials,
	ErrTooManyAttempts,
	ErrInvalidAmount,
	ErrLoanNotFound,
	ErrLoanAlreadyClosed,
	ErrPersistence,
}

const pgUniqueViolation = "23505"

func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// classify 已知錯誤原樣回傳，其餘視為儲存層錯誤
func classify(op string, err error) error {
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return persistErr(op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
