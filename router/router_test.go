// router/router_test.go
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go-bank-ledger/handler"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"
	"go-bank-ledger/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := repository.NewFileStore(t.TempDir())
	assert.NoError(t, err)

	userService := service.NewUserService(store, nil)
	ledgerService := service.NewLedgerService(store, nil, false)

	return NewRouter(handler.NewUserHandler(userService), handler.NewLedgerHandler(ledgerService))
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"API is healthy and running"}`, rr.Body.String())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/deposit", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

// TestRouter_FullFlow walks the whole surface the way a client would:
// register two users, fund them, transfer, then read balance and
// statement.
func TestRouter_FullFlow(t *testing.T) {
	r := newTestRouter(t)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	rr := do(http.MethodPost, "/register", `{"full_name":"Alice Smith","email":"alice@example.com","phone":"5551234567","address":"1 Main St"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	rr = do(http.MethodPost, "/register", `{"full_name":"Bob Jones","email":"bob@example.com","phone":"5559876543","address":"2 High St"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = do(http.MethodPost, "/deposit", `{"email":"alice@example.com","amount":"100.00","account_type":"SAVINGS"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(http.MethodPost, "/deposit", `{"email":"bob@example.com","amount":"5.00","account_type":"CURRENT"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(http.MethodPost, "/transfer", `{"sender_email":"alice@example.com","recipient_email":"bob@example.com","amount":"30.00"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	var receipt model.TransferReceipt
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &receipt))
	assert.NotEmpty(t, receipt.TransferID)

	rr = do(http.MethodGet, "/balance?email=alice@example.com", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	var balance struct {
		Balance decimal.Decimal `json:"balance"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &balance))
	assert.True(t, balance.Balance.Equal(decimal.RequireFromString("70.00")))

	rr = do(http.MethodGet, "/statement?email=bob@example.com", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	var statement []model.Transaction
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &statement))
	assert.Len(t, statement, 2)
	assert.Equal(t, receipt.TransferID, statement[1].TransferID)

	rr = do(http.MethodGet, "/users?email=bob@example.com", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}
