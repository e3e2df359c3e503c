package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-bank-ledger/common"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"
	"go-bank-ledger/service"

	"github.com/shopspring/decimal"
)

// LedgerHandler is thin presentation glue around the ledger engine: it
// decodes already-structured requests and translates the engine's typed
// errors into status codes. All banking invariants live in the service.
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// Deposit credits funds to an account, creating it on first deposit.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.DepositRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	account, err := h.ledgerService.DepositFunds(r.Context(), req.Email, req.Amount, req.AccountType)
	if err != nil {
		return mapLedgerError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
	return nil
}

// Transfer moves funds between two accounts.
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	receipt, err := h.ledgerService.TransferFunds(r.Context(), req.SenderEmail, req.RecipientEmail, req.Amount)
	if err != nil {
		return mapLedgerError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(receipt)
	return nil
}

// Balance returns the current balance for the email query parameter.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) *common.AppError {
	email := r.URL.Query().Get("email")
	if email == "" {
		return common.NewAppError(http.StatusBadRequest, "email query parameter is required", nil)
	}

	balance, err := h.ledgerService.GetBalance(r.Context(), email)
	if err != nil {
		return mapLedgerError(err)
	}

	response := struct {
		Email   string          `json:"email"`
		Balance decimal.Decimal `json:"balance"`
	}{
		Email:   email,
		Balance: balance,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
	return nil
}

// Statement returns the account's transactions in chronological order.
func (h *LedgerHandler) Statement(w http.ResponseWriter, r *http.Request) *common.AppError {
	email := r.URL.Query().Get("email")
	if email == "" {
		return common.NewAppError(http.StatusBadRequest, "email query parameter is required", nil)
	}

	statement, err := h.ledgerService.GetStatement(r.Context(), email)
	if err != nil {
		return mapLedgerError(err)
	}
	if statement == nil {
		statement = []model.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statement)
	return nil
}

func mapLedgerError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSameAccountTransfer):
		return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrSenderAccountNotFound),
		errors.Is(err, service.ErrReceiverAccountNotFound),
		errors.Is(err, service.ErrUnknownUser):
		return common.NewAppError(http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrInsufficientFunds):
		return common.NewAppError(http.StatusConflict, err.Error(), nil)
	case errors.Is(err, repository.ErrStorageUnavailable):
		return common.NewAppError(http.StatusServiceUnavailable, "storage unavailable", err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "internal server error", err)
	}
}
