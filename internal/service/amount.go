package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// 資料庫欄位為 NUMERIC(14,2)
var maxAmount = decimal.New(1, 12)

// ParseAmount 解析使用者輸入的金額並檢查範圍
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateAmount 金額必須 > 0、最多兩位小數、小於 10^12
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	if !d.Equal(d.Round(2)) {
		return ErrInvalidAmount
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return ErrInvalidAmount
	}
	return nil
}

// clampPayment 把還款金額壓到目前餘額；餘額為 0 的借款拒絕還款
func clampPayment(balance, amount decimal.Decimal) (applied, newBalance decimal.Decimal, clamped bool, err error) {
	if !balance.IsPositive() {
		return decimal.Zero, balance, false, ErrLoanAlreadyClosed
	}
	applied = amount
	if amount.GreaterThan(balance) {
		applied = balance
		clamped = true
	}
	return applied, balance.Sub(applied), clamped, nil
}
