// Package console 實作互動式主選單與使用者儀表板。
//
// Session 只持有 I/O 與注入的 service；登入後的使用者 ID 只存在於
// dashboard 迴圈的區域變數，登出即消失。
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"loanctl/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Authenticator interface {
	Register(ctx context.Context, username, password string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
}

type LoanBook interface {
	OpenLoan(ctx context.Context, userID int64, amount decimal.Decimal) (int64, error)
	ListActiveLoans(ctx context.Context, userID int64) ([]model.Loan, error)
	ListAllLoans(ctx context.Context, userID int64) ([]model.Loan, error)
	GetBalance(ctx context.Context, loanID, userID int64) (decimal.Decimal, error)
	ApplyPayment(ctx context.Context, loanID, userID int64, amount decimal.Decimal) (model.PaymentResult, error)
}

type PaymentHistory interface {
	History(ctx context.Context, loanID int64) ([]model.Payment, error)
}

type Options struct {
	In  io.Reader
	Out io.Writer
	// Secret 預設為 readSecretLine
	Secret SecretReader
	// Timeout 每次呼叫 service 的期限，<= 0 表示不設期限
	Timeout time.Duration
	Log     zerolog.Logger
}

type Session struct {
	in       *bufio.Reader
	out      io.Writer
	secret   SecretReader
	timeout  time.Duration
	log      zerolog.Logger
	validate *validator.Validate

	auth    Authenticator
	loans   LoanBook
	history PaymentHistory
}

func NewSession(auth Authenticator, loans LoanBook, history PaymentHistory, opts Options) *Session {
	secret := opts.Secret
	if secret == nil {
		secret = readSecretLine
	}
	return &Session{
		in:       bufio.NewReader(opts.In),
		out:      opts.Out,
		secret:   secret,
		timeout:  opts.Timeout,
		log:      opts.Log.With().Str("component", "console").Logger(),
		validate: validator.New(),
		auth:     auth,
		loans:    loans,
		history:  history,
	}
}

const mainMenu = `
1. Register
2. Login
3. Exit
`

// Run 執行主選單直到選擇 Exit、輸入結束 (EOF) 或 ctx 被取消；只有 I/O 錯誤會回傳
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return s.finish(err)
		}
		fmt.Fprint(s.out, mainMenu)
		choice, err := s.prompt("Choose: ")
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case "1":
			err = s.register(ctx)
		case "2":
			var userID int64
			userID, err = s.login(ctx)
			if err == nil && userID != 0 {
				err = s.dashboard(ctx, userID)
			}
		case "3":
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice, try again.")
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

// finish 把輸入結束與 ctx 取消視為 Exit
func (s *Session) finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintln(s.out, "\nGoodbye!")
		return nil
	}
	return err
}

func (s *Session) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
