package repository

import (
	"errors"

	"go-bank-ledger/model"
)

// ErrStorageUnavailable is wrapped by every store error caused by the
// underlying medium (permissions, disk full, connection loss).
var ErrStorageUnavailable = errors.New("storage unavailable")

// IStore defines the contract for durable collection storage. Each Load
// returns the full collection (empty if never written); each Commit
// replaces the full persisted contents in one all-or-nothing write, so a
// reader sees either the prior or the new contents, never a mix. The
// store knows nothing about banking semantics.
type IStore interface {
	LoadUsers() ([]model.User, error)
	CommitUsers(users []model.User) error
	LoadAccounts() ([]model.Account, error)
	CommitAccounts(accounts []model.Account) error
	LoadTransactions() ([]model.Transaction, error)
	CommitTransactions(transactions []model.Transaction) error
	LoadJournal() ([]model.JournalEntry, error)
	CommitJournal(entries []model.JournalEntry) error
	Close() error
}
