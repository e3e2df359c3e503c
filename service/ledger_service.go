package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-bank-ledger/events"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrSenderAccountNotFound   = errors.New("sender account not found")
	ErrReceiverAccountNotFound = errors.New("recipient account not found")
	ErrAccountNotFound         = errors.New("account not found")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrSameAccountTransfer     = errors.New("cannot transfer money to the same account")
	ErrUnknownUser             = errors.New("no registered user for this email")
)

// LedgerService owns every banking invariant: it is the only component
// that mutates accounts or appends transactions. It keeps no state
// between calls; each operation reloads the collections it needs from
// the store, mutates them and commits them back.
//
// A single mutex serializes the read-modify-write of the accounts
// collection across all deposits and transfers. Without it, two
// interleaved transfers could both read a stale balance, both pass the
// insufficient-funds gate and jointly overdraw the sender.
type LedgerService struct {
	store          repository.IStore
	publisher      events.IEventPublisher
	strictIdentity bool
	mu             sync.Mutex
}

// NewLedgerService wires the engine. publisher may be nil to disable
// event publishing. strictIdentity rejects deposits to emails with no
// User record and transfers from an account to itself.
func NewLedgerService(store repository.IStore, publisher events.IEventPublisher, strictIdentity bool) *LedgerService {
	return &LedgerService{
		store:          store,
		publisher:      publisher,
		strictIdentity: strictIdentity,
	}
}

// DepositFunds credits amount to the account owned by email, creating
// the account with the given type if it does not exist yet. The
// create-if-absent branch runs inside the critical section, so two
// concurrent first deposits cannot both create the account.
func (s *LedgerService) DepositFunds(ctx context.Context, email string, amount decimal.Decimal, accountType model.AccountType) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"email":        email,
		"amount":       amount,
		"account_type": accountType,
	})

	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.strictIdentity {
		if err := s.requireUser(email); err != nil {
			return nil, err
		}
	}

	accounts, err := s.store.LoadAccounts()
	if err != nil {
		return nil, fmt.Errorf("could not load accounts: %w", err)
	}

	now := time.Now().UTC()
	intent := model.JournalEntry{
		ID:          uuid.New().String(),
		Op:          model.JournalOpDeposit,
		To:          email,
		Amount:      amount,
		AccountType: accountType,
		TxnIDs:      []string{uuid.New().String()},
		CreatedAt:   now,
	}

	idx := findAccount(accounts, email)
	if idx < 0 {
		accounts = append(accounts, model.Account{
			Email:       email,
			Balance:     amount,
			AccountType: accountType,
			CreatedAt:   now,
			LastTxnID:   intent.ID,
		})
		idx = len(accounts) - 1
	} else {
		accounts[idx].Balance = accounts[idx].Balance.Add(amount)
		accounts[idx].LastTxnID = intent.ID
	}

	if err := s.appendIntent(intent); err != nil {
		return nil, err
	}
	if err := s.store.CommitAccounts(accounts); err != nil {
		return nil, fmt.Errorf("could not commit accounts: %w", err)
	}
	if err := s.appendTransactions(model.Transaction{
		ID:        intent.TxnIDs[0],
		Email:     email,
		Kind:      model.TransactionCredit,
		Amount:    amount,
		Timestamp: now,
	}); err != nil {
		return nil, err
	}
	if err := s.clearIntent(intent.ID); err != nil {
		return nil, err
	}

	log.Info("Deposit completed")
	s.publish(events.TopicDepositCompleted, events.DepositCompleted{
		Email:       email,
		Amount:      amount,
		AccountType: string(accountType),
		OccurredAt:  now,
	})

	updated := accounts[idx]
	return &updated, nil
}

// TransferFunds moves amount from the sender's account to the
// recipient's. Both balance changes land in one accounts commit, and the
// debit and credit legs land in one transactions commit sharing a
// correlation id, so no reader ever observes half a transfer. Every
// failure is checked before the first commit; a failed transfer mutates
// nothing.
func (s *LedgerService) TransferFunds(ctx context.Context, senderEmail, recipientEmail string, amount decimal.Decimal) (*model.TransferReceipt, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"sender":    senderEmail,
		"recipient": recipientEmail,
		"amount":    amount,
	})
	log.Info("Starting money transfer")

	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if s.strictIdentity && senderEmail == recipientEmail {
		return nil, ErrSameAccountTransfer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.store.LoadAccounts()
	if err != nil {
		return nil, fmt.Errorf("could not load accounts: %w", err)
	}

	// Recipient is resolved before the sender; which "not found" the
	// caller sees when both are missing is part of the behavior.
	recipientIdx := findAccount(accounts, recipientEmail)
	if recipientIdx < 0 {
		return nil, ErrReceiverAccountNotFound
	}
	senderIdx := findAccount(accounts, senderEmail)
	if senderIdx < 0 {
		return nil, ErrSenderAccountNotFound
	}

	if accounts[senderIdx].Balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	now := time.Now().UTC()
	intent := model.JournalEntry{
		ID:        uuid.New().String(),
		Op:        model.JournalOpTransfer,
		From:      senderEmail,
		To:        recipientEmail,
		Amount:    amount,
		TxnIDs:    []string{uuid.New().String(), uuid.New().String()},
		CreatedAt: now,
	}

	accounts[senderIdx].Balance = accounts[senderIdx].Balance.Sub(amount)
	accounts[senderIdx].LastTxnID = intent.ID
	accounts[recipientIdx].Balance = accounts[recipientIdx].Balance.Add(amount)
	accounts[recipientIdx].LastTxnID = intent.ID

	debit := model.Transaction{
		ID:         intent.TxnIDs[0],
		Email:      senderEmail,
		Kind:       model.TransactionDebit,
		Amount:     amount,
		Timestamp:  now,
		TransferID: intent.ID,
	}
	credit := model.Transaction{
		ID:         intent.TxnIDs[1],
		Email:      recipientEmail,
		Kind:       model.TransactionCredit,
		Amount:     amount,
		Timestamp:  now,
		TransferID: intent.ID,
	}

	if err := s.appendIntent(intent); err != nil {
		return nil, err
	}
	if err := s.store.CommitAccounts(accounts); err != nil {
		return nil, fmt.Errorf("could not commit accounts: %w", err)
	}
	if err := s.appendTransactions(debit, credit); err != nil {
		return nil, err
	}
	if err := s.clearIntent(intent.ID); err != nil {
		return nil, err
	}

	log.WithField("transfer_id", intent.ID).Info("Transfer completed successfully")
	s.publish(events.TopicTransferCompleted, events.TransferCompleted{
		TransferID:     intent.ID,
		SenderEmail:    senderEmail,
		RecipientEmail: recipientEmail,
		Amount:         amount,
		OccurredAt:     now,
	})

	return &model.TransferReceipt{
		TransferID: intent.ID,
		Debit:      debit,
		Credit:     credit,
	}, nil
}

// GetBalance returns the current balance for email's account.
func (s *LedgerService) GetBalance(ctx context.Context, email string) (decimal.Decimal, error) {
	accounts, err := s.store.LoadAccounts()
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not load accounts: %w", err)
	}
	idx := findAccount(accounts, email)
	if idx < 0 {
		return decimal.Zero, ErrAccountNotFound
	}
	return accounts[idx].Balance, nil
}

// GetStatement returns every transaction owned by email in insertion
// order. The log is append-only, so insertion order is chronological.
// The statement is recomputed from the store on every call, never cached.
func (s *LedgerService) GetStatement(ctx context.Context, email string) ([]model.Transaction, error) {
	transactions, err := s.store.LoadTransactions()
	if err != nil {
		return nil, fmt.Errorf("could not load transactions: %w", err)
	}
	var statement []model.Transaction
	for _, t := range transactions {
		if t.Email == email {
			statement = append(statement, t)
		}
	}
	return statement, nil
}

func (s *LedgerService) requireUser(email string) error {
	users, err := s.store.LoadUsers()
	if err != nil {
		return fmt.Errorf("could not load users: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			return nil
		}
	}
	return ErrUnknownUser
}

func (s *LedgerService) appendIntent(intent model.JournalEntry) error {
	journal, err := s.store.LoadJournal()
	if err != nil {
		return fmt.Errorf("could not load journal: %w", err)
	}
	journal = append(journal, intent)
	if err := s.store.CommitJournal(journal); err != nil {
		return fmt.Errorf("could not commit journal: %w", err)
	}
	return nil
}

func (s *LedgerService) clearIntent(id string) error {
	journal, err := s.store.LoadJournal()
	if err != nil {
		return fmt.Errorf("could not load journal: %w", err)
	}
	remaining := journal[:0]
	for _, e := range journal {
		if e.ID != id {
			remaining = append(remaining, e)
		}
	}
	if err := s.store.CommitJournal(remaining); err != nil {
		return fmt.Errorf("could not commit journal: %w", err)
	}
	return nil
}

func (s *LedgerService) appendTransactions(txns ...model.Transaction) error {
	transactions, err := s.store.LoadTransactions()
	if err != nil {
		return fmt.Errorf("could not load transactions: %w", err)
	}
	transactions = append(transactions, txns...)
	if err := s.store.CommitTransactions(transactions); err != nil {
		return fmt.Errorf("could not commit transactions: %w", err)
	}
	return nil
}

func (s *LedgerService) publish(topic string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(topic, event); err != nil {
		logger.Log.WithField("topic", topic).WithError(err).Warn("Failed to publish ledger event")
	}
}

func findAccount(accounts []model.Account, email string) int {
	for i := range accounts {
		if accounts[i].Email == email {
			return i
		}
	}
	return -1
}
