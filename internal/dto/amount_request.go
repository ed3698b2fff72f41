// File: internal/dto/amount_request.go
package dto

// AmountRequest 借款或還款金額的原始輸入，範圍檢查交給 service.ParseAmount
type AmountRequest struct {
	Amount string `validate:"required,numeric"`
}
