package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go-bank-ledger/logger"
	"go-bank-ledger/model"
)

const (
	usersFile        = "users.json"
	accountsFile     = "accounts.json"
	transactionsFile = "transactions.json"
	journalFile      = "journal.json"
)

// FileStore persists each collection as a JSON file under a data
// directory. Commits write a temporary file, fsync it and rename it over
// the original, so a crash mid-write never leaves a truncated or mixed
// collection on disk.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data dir: %v", ErrStorageUnavailable, err)
	}
	logger.Log.WithField("data_dir", dir).Info("File store opened")
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) LoadUsers() ([]model.User, error) {
	var users []model.User
	err := s.load(usersFile, &users)
	return users, err
}

func (s *FileStore) CommitUsers(users []model.User) error {
	return s.commit(usersFile, users)
}

func (s *FileStore) LoadAccounts() ([]model.Account, error) {
	var accounts []model.Account
	err := s.load(accountsFile, &accounts)
	return accounts, err
}

func (s *FileStore) CommitAccounts(accounts []model.Account) error {
	return s.commit(accountsFile, accounts)
}

func (s *FileStore) LoadTransactions() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := s.load(transactionsFile, &transactions)
	return transactions, err
}

func (s *FileStore) CommitTransactions(transactions []model.Transaction) error {
	return s.commit(transactionsFile, transactions)
}

func (s *FileStore) LoadJournal() ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	err := s.load(journalFile, &entries)
	return entries, err
}

func (s *FileStore) CommitJournal(entries []model.JournalEntry) error {
	return s.commit(journalFile, entries)
}

func (s *FileStore) Close() error {
	return nil
}

// load decodes a collection file into out. A missing file means the
// collection has never been written and loads as empty; a corrupt file
// also loads as empty, with a logged warning, so the system starts from
// a clean state rather than refusing to run.
func (s *FileStore) load(name string, out any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: reading %s: %v", ErrStorageUnavailable, name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Log.WithField("file", name).WithError(err).Warn("Collection file is corrupt, starting empty")
		return nil
	}
	return nil
}

func (s *FileStore) commit(name string, contents any) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrStorageUnavailable, name, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(contents); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: encoding %s: %v", ErrStorageUnavailable, name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: syncing %s: %v", ErrStorageUnavailable, name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: closing %s: %v", ErrStorageUnavailable, name, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replacing %s: %v", ErrStorageUnavailable, name, err)
	}
	return nil
}

// Compile-time check: FileStore implements IStore.
var _ IStore = (*FileStore)(nil)
