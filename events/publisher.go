package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicDepositCompleted  = "deposit_completed"
	TopicTransferCompleted = "transfer_completed"
)

// IEventPublisher defines the contract for publishing ledger events.
// Publishing is best-effort and happens only after the relevant commit;
// a publish failure never rolls back money movement.
type IEventPublisher interface {
	Publish(topic string, event any) error
}

type DepositCompleted struct {
	Email       string          `json:"email"`
	Amount      decimal.Decimal `json:"amount"`
	AccountType string          `json:"account_type"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type TransferCompleted struct {
	TransferID     string          `json:"transfer_id"`
	SenderEmail    string          `json:"sender_email"`
	RecipientEmail string          `json:"recipient_email"`
	Amount         decimal.Decimal `json:"amount"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
