package router

import (
	"net/http"

	"go-bank-ledger/handler"
)

func NewRouter(userHandler *handler.UserHandler, ledgerHandler *handler.LedgerHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("GET /users", handler.ErrorHandlingMiddleware(userHandler.GetUser))

	mux.Handle("POST /deposit", handler.ErrorHandlingMiddleware(ledgerHandler.Deposit))
	mux.Handle("POST /transfer", handler.ErrorHandlingMiddleware(ledgerHandler.Transfer))
	mux.Handle("GET /balance", handler.ErrorHandlingMiddleware(ledgerHandler.Balance))
	mux.Handle("GET /statement", handler.ErrorHandlingMiddleware(ledgerHandler.Statement))

	return mux
}
