package service

import (
	"context"
	"errors"

	"loanctl/internal/database"
	"loanctl/internal/model"
	"loanctl/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// 以下變數在測試中覆寫
var (
	hashPassword      = HashPassword
	comparePassword   = ComparePassword
	createUser        = store.CreateUser
	getUserByUsername = store.GetUserByUsername
)

// LoginGuard 限制連續登入失敗次數，*cache.LoginGuard 實作
type LoginGuard interface {
	Locked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) (int64, error)
	Reset(ctx context.Context, username string) error
}

// Credentials 負責註冊與登入驗證
type Credentials struct {
	db    database.DB
	guard LoginGuard
	log   zerolog.Logger
}

// NewCredentials guard 可為 nil，代表不限制登入次數
func NewCredentials(db database.DB, guard LoginGuard, log zerolog.Logger) *Credentials {
	return &Credentials{db: db, guard: guard, log: log.With().Str("component", "credentials").Logger()}
}

// Register 建立帳號並回傳使用者 ID
func (s *Credentials) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, ErrInvalidCredentials
	}

	hash, err := hashPassword(password)
	if err != nil {
		return 0, persistErr("Register", err)
	}

	u, err := createUser(ctx, s.db, &model.User{Username: username, PasswordHash: hash})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		return 0, persistErr("Register", err)
	}

	s.log.Info().Int64("user_id", u.ID).Msg("user registered")
	return u.ID, nil
}

// Authenticate 驗證帳密；帳號不存在與密碼錯誤回傳同一個錯誤
func (s *Credentials) Authenticate(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, ErrInvalidCredentials
	}

	if s.guard != nil {
		locked, err := s.guard.Locked(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Msg("login guard unavailable")
		} else if locked {
			return 0, ErrTooManyAttempts
		}
	}

	u, err := getUserByUsername(ctx, s.db, username)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, persistErr("Authenticate", err)
		}
		_ = comparePassword(dummyHash(), password)
		s.recordFailure(ctx, username)
		return 0, ErrInvalidCredentials
	}

	if err := comparePassword(u.PasswordHash, password); err != nil {
		s.recordFailure(ctx, username)
		return 0, ErrInvalidCredentials
	}

	if s.guard != nil {
		if err := s.guard.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("login guard reset failed")
		}
	}
	s.log.Debug().Int64("user_id", u.ID).Msg("user authenticated")
	return u.ID, nil
}

func (s *Credentials) recordFailure(ctx context.Context, username string) {
	if s.guard == nil {
		return
	}
	n, err := s.guard.RecordFailure(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Msg("login guard record failed")
		return
	}
	s.log.Debug().Int64("failures", n).Msg("login failed")
}
