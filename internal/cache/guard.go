package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginFailPrefix = "loanctl:login:fail:"

// LoginGuard 以 Redis 計數每個 username 的連續登入失敗次數。
// 第一次失敗時設定 TTL，視窗到期後計數自動清除。
type LoginGuard struct {
	cache       Cache
	maxAttempts int64
	window      time.Duration
}

func NewLoginGuard(c Cache, maxAttempts int, window time.Duration) *LoginGuard {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &LoginGuard{cache: c, maxAttempts: int64(maxAttempts), window: window}
}

// Locked 回報該 username 是否已達失敗上限
func (g *LoginGuard) Locked(ctx context.Context, username string) (bool, error) {
	n, err := g.cache.Get(ctx, loginFailKey(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("LoginGuard.Locked: %w", err)
	}
	return n >= g.maxAttempts, nil
}

// RecordFailure 累加失敗次數，回傳目前次數
func (g *LoginGuard) RecordFailure(ctx context.Context, username string) (int64, error) {
	key := loginFailKey(username)
	n, err := g.cache.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("LoginGuard.RecordFailure: %w", err)
	}
	if n == 1 {
		if err := g.cache.Expire(ctx, key, g.window).Err(); err != nil {
			return n, fmt.Errorf("LoginGuard.RecordFailure: %w", err)
		}
	}
	return n, nil
}

// Reset 登入成功後清除計數
func (g *LoginGuard) Reset(ctx context.Context, username string) error {
	if err := g.cache.Del(ctx, loginFailKey(username)).Err(); err != nil {
		return fmt.Errorf("LoginGuard.Reset: %w", err)
	}
	return nil
}

func loginFailKey(username string) string {
	return loginFailPrefix + username
}
