package repository

import (
	"database/sql"
	"fmt"

	"go-bank-ledger/logger"
	"go-bank-ledger/model"

	"github.com/lib/pq"
)

// PostgresStore implements IStore on top of Postgres. Every commit runs
// as one SQL transaction that replaces the table contents, which gives
// the same whole-collection all-or-nothing contract as the file store:
// concurrent readers see the pre-commit or post-commit rows, never a mix.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) LoadUsers() ([]model.User, error) {
	query := `SELECT email, full_name, phone, address, created_at FROM users ORDER BY seq`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, storageErr("loading users", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Email, &u.FullName, &u.Phone, &u.Address, &u.CreatedAt); err != nil {
			return nil, storageErr("scanning user row", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating user rows", err)
	}
	return users, nil
}

func (s *PostgresStore) CommitUsers(users []model.User) error {
	return s.replace("users", func(tx *sql.Tx) error {
		query := `INSERT INTO users (email, full_name, phone, address, created_at) VALUES ($1, $2, $3, $4, $5)`
		for _, u := range users {
			if _, err := tx.Exec(query, u.Email, u.FullName, u.Phone, u.Address, u.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) LoadAccounts() ([]model.Account, error) {
	query := `SELECT email, balance, account_type, created_at, last_txn_id FROM accounts ORDER BY seq`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, storageErr("loading accounts", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.Email, &a.Balance, &a.AccountType, &a.CreatedAt, &a.LastTxnID); err != nil {
			return nil, storageErr("scanning account row", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating account rows", err)
	}
	return accounts, nil
}

func (s *PostgresStore) CommitAccounts(accounts []model.Account) error {
	return s.replace("accounts", func(tx *sql.Tx) error {
		query := `INSERT INTO accounts (email, balance, account_type, created_at, last_txn_id) VALUES ($1, $2, $3, $4, $5)`
		for _, a := range accounts {
			if _, err := tx.Exec(query, a.Email, a.Balance, a.AccountType, a.CreatedAt, a.LastTxnID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) LoadTransactions() ([]model.Transaction, error) {
	query := `SELECT id, email, kind, amount, occurred_at, transfer_id FROM transactions ORDER BY seq`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, storageErr("loading transactions", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.Email, &t.Kind, &t.Amount, &t.Timestamp, &t.TransferID); err != nil {
			return nil, storageErr("scanning transaction row", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating transaction rows", err)
	}
	return transactions, nil
}

func (s *PostgresStore) CommitTransactions(transactions []model.Transaction) error {
	return s.replace("transactions", func(tx *sql.Tx) error {
		query := `INSERT INTO transactions (id, email, kind, amount, occurred_at, transfer_id) VALUES ($1, $2, $3, $4, $5, $6)`
		for _, t := range transactions {
			if _, err := tx.Exec(query, t.ID, t.Email, t.Kind, t.Amount, t.Timestamp, t.TransferID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) LoadJournal() ([]model.JournalEntry, error) {
	query := `SELECT id, op, from_email, to_email, amount, account_type, txn_ids, created_at FROM journal ORDER BY seq`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, storageErr("loading journal", err)
	}
	defer rows.Close()

	var entries []model.JournalEntry
	for rows.Next() {
		var e model.JournalEntry
		if err := rows.Scan(&e.ID, &e.Op, &e.From, &e.To, &e.Amount, &e.AccountType, pq.Array(&e.TxnIDs), &e.CreatedAt); err != nil {
			return nil, storageErr("scanning journal row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating journal rows", err)
	}
	return entries, nil
}

func (s *PostgresStore) CommitJournal(entries []model.JournalEntry) error {
	return s.replace("journal", func(tx *sql.Tx) error {
		query := `INSERT INTO journal (id, op, from_email, to_email, amount, account_type, txn_ids, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		for _, e := range entries {
			if _, err := tx.Exec(query, e.ID, e.Op, e.From, e.To, e.Amount, e.AccountType, pq.Array(e.TxnIDs), e.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}

// replace swaps the full contents of a table inside one transaction.
func (s *PostgresStore) replace(table string, insert func(tx *sql.Tx) error) error {
	log := logger.Log.WithField("table", table)

	tx, err := s.DB.Begin()
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
		log.WithError(err).Error("Failed to clear table contents")
		return storageErr("clearing "+table, err)
	}
	if err := insert(tx); err != nil {
		log.WithError(err).Error("Failed to insert replacement rows")
		return storageErr("writing "+table, err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("committing "+table, err)
	}
	return nil
}

func storageErr(action string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, action, err)
}

// Compile-time check: PostgresStore implements IStore.
var _ IStore = (*PostgresStore)(nil)
