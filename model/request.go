// file: model/request.go

package model

import "github.com/shopspring/decimal"

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,len=10,numeric"`
	Address  string `json:"address" validate:"required"`
}

// DepositRequest defines the payload for depositing funds into an account.
type DepositRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	AccountType AccountType     `json:"account_type" validate:"required,oneof=SAVINGS CURRENT"`
}

// TransferRequest defines the payload for a money transfer between accounts.
type TransferRequest struct {
	SenderEmail    string          `json:"sender_email" validate:"required,email"`
	RecipientEmail string          `json:"recipient_email" validate:"required,email"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
}
