package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionCredit TransactionKind = "CREDIT"
	TransactionDebit  TransactionKind = "DEBIT"
)

// Transaction is an immutable, append-only ledger record. The two legs of
// a transfer share one TransferID; a plain deposit has none.
type Transaction struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	Kind       TransactionKind `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Timestamp  time.Time       `json:"timestamp"`
	TransferID string          `json:"transfer_id,omitempty"`
}

// TransferReceipt is returned by a successful transfer. Debit and Credit
// are the two ledger legs recorded for the movement.
type TransferReceipt struct {
	TransferID string      `json:"transfer_id"`
	Debit      Transaction `json:"debit"`
	Credit     Transaction `json:"credit"`
}
