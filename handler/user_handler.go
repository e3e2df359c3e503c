package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-bank-ledger/common"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"
	"go-bank-ledger/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates a new user from a JSON payload. Duplicate emails are
// rejected with 409.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.userService.RegisterUser(r.Context(), req)
	if err != nil {
		return mapUserError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// GetUser returns the user record for the email query parameter.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	email := r.URL.Query().Get("email")
	if email == "" {
		return common.NewAppError(http.StatusBadRequest, "email query parameter is required", nil)
	}

	user, err := h.userService.GetUserByEmail(r.Context(), email)
	if err != nil {
		return mapUserError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
	return nil
}

func mapUserError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrEmailExists):
		return common.NewAppError(http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrUserNotFound):
		return common.NewAppError(http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, repository.ErrStorageUnavailable):
		return common.NewAppError(http.StatusServiceUnavailable, "storage unavailable", err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "internal server error", err)
	}
}
