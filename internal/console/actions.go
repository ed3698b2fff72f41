package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"loanctl/internal/dto"
	"loanctl/internal/service"

	"github.com/shopspring/decimal"
)

var (
	errMissingCredentials = errors.New("missing credentials")
	errInvalidLoanID      = errors.New("invalid loan id")
)

const historyTimeLayout = "2006-01-02 15:04:05"

const dashboardMenu = `
1. Apply for Loan
2. Make Payment
3. Check Balance
4. View Payment History
5. Logout
`

func (s *Session) readCredentials() (dto.LoginRequest, error) {
	var req dto.LoginRequest
	var err error
	if req.Username, err = s.prompt("Enter username: "); err != nil {
		return req, err
	}
	if req.Password, err = s.promptSecret("Enter password: "); err != nil {
		return req, err
	}
	return req, nil
}

func (s *Session) register(ctx context.Context) error {
	req, err := s.readCredentials()
	if err != nil {
		return err
	}
	if err := s.validate.Struct(&req); err != nil {
		s.report("during registration", errMissingCredentials)
		return nil
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	if _, err := s.auth.Register(cctx, req.Username, req.Password); err != nil {
		s.report("during registration", err)
		return nil
	}
	fmt.Fprintln(s.out, "User registered successfully!")
	return nil
}

// login 成功回傳使用者 ID；帳密錯誤時回傳 0 與 nil
func (s *Session) login(ctx context.Context) (int64, error) {
	req, err := s.readCredentials()
	if err != nil {
		return 0, err
	}
	if err := s.validate.Struct(&req); err != nil {
		s.report("during login", service.ErrInvalidCredentials)
		return 0, nil
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	userID, err := s.auth.Authenticate(cctx, req.Username, req.Password)
	if err != nil {
		s.report("during login", err)
		return 0, nil
	}
	fmt.Fprintln(s.out, "Login successful!")
	return userID, nil
}

func (s *Session) dashboard(ctx context.Context, userID int64) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, dashboardMenu)
		choice, err := s.prompt("Choose: ")
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.applyLoan(ctx, userID)
		case "2":
			err = s.makePayment(ctx, userID)
		case "3":
			err = s.checkBalance(ctx, userID)
		case "4":
			err = s.viewHistory(ctx, userID)
		case "5":
			fmt.Fprintln(s.out, "Logged out.")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice, try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) applyLoan(ctx context.Context, userID int64) error {
	raw, err := s.prompt("Enter loan amount: ")
	if err != nil {
		return err
	}
	amount, err := s.parseAmount(raw)
	if err != nil {
		s.report("applying loan", err)
		return nil
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	loanID, err := s.loans.OpenLoan(cctx, userID, amount)
	if err != nil {
		s.report("applying loan", err)
		return nil
	}
	fmt.Fprintf(s.out, "Loan applied successfully! Loan ID: %d\n", loanID)
	return nil
}

func (s *Session) makePayment(ctx context.Context, userID int64) error {
	cctx, cancel := s.callCtx(ctx)
	active, err := s.loans.ListActiveLoans(cctx, userID)
	cancel()
	if err != nil {
		s.report("making payment", err)
		return nil
	}
	if len(active) == 0 {
		fmt.Fprintln(s.out, "No active loans found.")
		return nil
	}
	fmt.Fprintln(s.out, "Active loans:")
	for _, l := range active {
		fmt.Fprintf(s.out, "Loan ID: %d, Balance: %s\n", l.ID, money(l.Balance))
	}

	raw, err := s.prompt("Enter Loan ID to make a payment: ")
	if err != nil {
		return err
	}
	loanID, err := s.parseLoanID(raw)
	if err != nil {
		s.report("making payment", err)
		return nil
	}

	cctx, cancel = s.callCtx(ctx)
	_, err = s.loans.GetBalance(cctx, loanID, userID)
	cancel()
	if err != nil {
		s.report("making payment", err)
		return nil
	}

	raw, err = s.prompt("Enter payment amount: ")
	if err != nil {
		return err
	}
	amount, err := s.parseAmount(raw)
	if err != nil {
		s.report("making payment", err)
		return nil
	}

	cctx, cancel = s.callCtx(ctx)
	defer cancel()
	res, err := s.loans.ApplyPayment(cctx, loanID, userID, amount)
	if err != nil {
		s.report("making payment", err)
		return nil
	}
	if res.Clamped {
		fmt.Fprintf(s.out, "Payment capped to remaining balance: %s\n", money(res.Payment.Amount))
	}
	fmt.Fprintf(s.out, "Payment successful! New balance: %s\n", money(res.NewBalance))
	if res.FullyPaid {
		fmt.Fprintln(s.out, "Loan fully paid!")
	}
	return nil
}

func (s *Session) checkBalance(ctx context.Context, userID int64) error {
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	loans, err := s.loans.ListAllLoans(cctx, userID)
	if err != nil {
		s.report("fetching balances", err)
		return nil
	}
	if len(loans) == 0 {
		fmt.Fprintln(s.out, "No loans found.")
		return nil
	}
	fmt.Fprintln(s.out, "Your loans and balances:")
	for _, l := range loans {
		line := fmt.Sprintf("Loan ID: %d, Amount: %s, Balance: %s", l.ID, money(l.Principal), money(l.Balance))
		if l.Closed() {
			line += " (paid)"
		}
		fmt.Fprintln(s.out, line)
	}
	return nil
}

func (s *Session) viewHistory(ctx context.Context, userID int64) error {
	raw, err := s.prompt("Enter Loan ID to view payment history: ")
	if err != nil {
		return err
	}
	loanID, err := s.parseLoanID(raw)
	if err != nil {
		s.report("fetching payment history", err)
		return nil
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	// 只顯示自己的借款
	if _, err := s.loans.GetBalance(cctx, loanID, userID); err != nil {
		s.report("fetching payment history", err)
		return nil
	}
	payments, err := s.history.History(cctx, loanID)
	if err != nil {
		s.report("fetching payment history", err)
		return nil
	}
	if len(payments) == 0 {
		fmt.Fprintln(s.out, "No payments made yet.")
		return nil
	}
	fmt.Fprintf(s.out, "Payment history for Loan ID %d:\n", loanID)
	for _, p := range payments {
		fmt.Fprintf(s.out, "Amount: %s, Date: %s\n", money(p.Amount), p.PaidAt.Local().Format(historyTimeLayout))
	}
	return nil
}

func (s *Session) parseAmount(raw string) (decimal.Decimal, error) {
	if err := s.validate.Struct(&dto.AmountRequest{Amount: raw}); err != nil {
		return decimal.Zero, service.ErrInvalidAmount
	}
	return service.ParseAmount(raw)
}

func (s *Session) parseLoanID(raw string) (int64, error) {
	if err := s.validate.Struct(&dto.LoanIDRequest{LoanID: raw}); err != nil {
		return 0, errInvalidLoanID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errInvalidLoanID
	}
	return id, nil
}

// report 印出使用者看得懂的訊息；非預期錯誤另外寫入 log
func (s *Session) report(action string, err error) {
	msg, expected := userMessage(err)
	if expected {
		s.log.Debug().Err(err).Str("action", action).Msg("action rejected")
		fmt.Fprintln(s.out, msg)
		return
	}
	s.log.Error().Err(err).Str("action", action).Msg("action failed")
	fmt.Fprintf(s.out, "Error %s. Please try again.\n", action)
}

func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		return "Username already exists. Try another.", true
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid username or password.", true
	case errors.Is(err, service.ErrTooManyAttempts):
		return "Too many failed login attempts. Try again later.", true
	case errors.Is(err, errMissingCredentials):
		return "Username and password are required.", true
	case errors.Is(err, service.ErrInvalidAmount):
		return "Invalid amount. Enter a positive number with at most two decimal places.", true
	case errors.Is(err, errInvalidLoanID):
		return "Invalid Loan ID.", true
	case errors.Is(err, service.ErrLoanNotFound):
		return "Loan not found.", true
	case errors.Is(err, service.ErrLoanAlreadyClosed):
		return "Loan is already fully paid.", true
	default:
		return "", false
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
