package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings AccountType = "SAVINGS"
	AccountTypeCurrent AccountType = "CURRENT"
)

// Account holds the balance for one owner email. There is at most one
// account per email; it is created lazily on first deposit.
type Account struct {
	Email       string          `json:"email"`
	Balance     decimal.Decimal `json:"balance"`
	AccountType AccountType     `json:"account_type"`
	CreatedAt   time.Time       `json:"created_at"`
	// LastTxnID is the id of the last journal intent applied to this
	// account. Startup recovery uses it to tell whether a balance
	// change landed before a crash.
	LastTxnID string `json:"last_txn_id,omitempty"`
}
