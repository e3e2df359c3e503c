package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type JournalOp string

const (
	JournalOpDeposit  JournalOp = "DEPOSIT"
	JournalOpTransfer JournalOp = "TRANSFER"
)

// JournalEntry is a durable intent record written before any balance
// moves and cleared after the transaction log is committed. For a
// transfer its ID doubles as the correlation id of the two legs. TxnIDs
// holds the pre-generated ids of the transaction records the operation
// will append, so recovery can tell whether they reached the log.
type JournalEntry struct {
	ID          string          `json:"id"`
	Op          JournalOp       `json:"op"`
	From        string          `json:"from,omitempty"`
	To          string          `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	AccountType AccountType     `json:"account_type,omitempty"`
	TxnIDs      []string        `json:"txn_ids"`
	CreatedAt   time.Time       `json:"created_at"`
}
