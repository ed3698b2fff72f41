// Command loanctl 是互動式的借款管理主控台。
//
// 設定皆來自環境變數：DATABASE_URL 為必填，REDIS_ADDR 有值時啟用登入失敗次數限制。
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"loanctl/internal/cache"
	"loanctl/internal/config"
	"loanctl/internal/console"
	"loanctl/internal/database"
	"loanctl/internal/logger"
	"loanctl/internal/service"
)

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	runMigrationsFn = database.RunMigrations
	newRedisClient  = cache.NewRedisClient
	secretReader    = console.TerminalSecret(os.Stdin, os.Stdout)
	exitFunc        = os.Exit
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func run(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	err = db.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	var guard service.LoginGuard
	if cfg.GuardEnabled() {
		rdb, err := newRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, login guard disabled")
		} else {
			defer rdb.Close()
			guard = cache.NewLoginGuard(rdb, cfg.Login.MaxAttempts, cfg.Login.Lockout)
		}
	}

	recorder := service.NewRecorder(db)
	ledger := service.NewLedger(db, recorder, log)
	creds := service.NewCredentials(db, guard, log)

	log.Info().Bool("login_guard", guard != nil).Msg("loanctl started")

	session := console.NewSession(creds, ledger, recorder, console.Options{
		In:      stdin,
		Out:     stdout,
		Secret:  secretReader,
		Timeout: cfg.DBTimeout,
		Log:     log,
	})
	return session.Run(ctx)
}

func main() {
	if err := run(context.Background()); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("loanctl exited")
		fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
	}
}
