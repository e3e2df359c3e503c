// repository/postgres_store_test.go
package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"go-bank-ledger/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPostgresStore_LoadAccounts(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"email", "balance", "account_type", "created_at", "last_txn_id"}).
		AddRow("alice@example.com", "100.50", "SAVINGS", now, "").
		AddRow("bob@example.com", "30", "CURRENT", now, "txn-1")

	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT email, balance, account_type, created_at, last_txn_id FROM accounts ORDER BY seq`)).
		WillReturnRows(rows)

	accounts, err := store.LoadAccounts()
	assert.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Equal(t, "alice@example.com", accounts[0].Email)
	assert.True(t, accounts[0].Balance.Equal(decimal.RequireFromString("100.50")))
	assert.Equal(t, model.AccountTypeCurrent, accounts[1].AccountType)
	assert.Equal(t, "txn-1", accounts[1].LastTxnID)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresStore_CommitAccounts(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	now := time.Now().UTC()
	accounts := []model.Account{
		{Email: "alice@example.com", Balance: decimal.RequireFromString("70"), AccountType: model.AccountTypeSavings, CreatedAt: now, LastTxnID: "txn-9"},
		{Email: "bob@example.com", Balance: decimal.RequireFromString("30"), AccountType: model.AccountTypeCurrent, CreatedAt: now, LastTxnID: "txn-9"},
	}

	// The whole collection is replaced inside one transaction.
	dbMock.ExpectBegin()
	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM accounts`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	insert := regexp.QuoteMeta(`INSERT INTO accounts (email, balance, account_type, created_at, last_txn_id) VALUES ($1, $2, $3, $4, $5)`)
	for range accounts {
		dbMock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	dbMock.ExpectCommit()

	assert.NoError(t, store.CommitAccounts(accounts))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresStore_CommitRollsBackOnInsertError(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM transactions`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO transactions`)).
		WillReturnError(errors.New("disk full"))
	dbMock.ExpectRollback()

	err = store.CommitTransactions([]model.Transaction{
		{ID: "t1", Email: "a@example.com", Kind: model.TransactionCredit, Amount: decimal.New(1, 0), Timestamp: time.Now().UTC()},
	})
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresStore_LoadErrorIsStorageUnavailable(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, kind, amount, occurred_at, transfer_id FROM transactions ORDER BY seq`)).
		WillReturnError(errors.New("connection refused"))

	_, err = store.LoadTransactions()
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
