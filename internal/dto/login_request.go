// File: internal/dto/login_request.go
package dto

// LoginRequest 登入與註冊共用的帳密輸入
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}
