// File: internal/dto/loan_id_request.go
package dto

type LoanIDRequest struct {
	LoanID string `validate:"required,number,max=18"`
}
