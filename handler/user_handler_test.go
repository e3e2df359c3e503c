// handler/user_handler_test.go
package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"go-bank-ledger/model"

	"github.com/stretchr/testify/assert"
)

func TestUserHandler_Register(t *testing.T) {
	body := `{"full_name":"Alice Smith","email":"alice@example.com","phone":"5551234567","address":"1 Main St"}`

	t.Run("success", func(t *testing.T) {
		userHandler, _ := newTestHandlers(t)
		register := ErrorHandlingMiddleware(userHandler.Register)

		rr := post(register, "/register", body)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var user model.User
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice Smith", user.FullName)
	})

	t.Run("duplicate email maps to 409", func(t *testing.T) {
		userHandler, _ := newTestHandlers(t)
		register := ErrorHandlingMiddleware(userHandler.Register)

		rr := post(register, "/register", body)
		assert.Equal(t, http.StatusCreated, rr.Code)

		rr = post(register, "/register", body)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("phone must be ten digits", func(t *testing.T) {
		userHandler, _ := newTestHandlers(t)
		register := ErrorHandlingMiddleware(userHandler.Register)

		rr := post(register, "/register", `{"full_name":"Alice Smith","email":"alice@example.com","phone":"123","address":"1 Main St"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		userHandler, _ := newTestHandlers(t)
		register := ErrorHandlingMiddleware(userHandler.Register)

		rr := post(register, "/register", `{"full_name":"Alice Smith","email":"not-an-email","phone":"5551234567","address":"1 Main St"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUserHandler_GetUser(t *testing.T) {
	userHandler, _ := newTestHandlers(t)
	register := ErrorHandlingMiddleware(userHandler.Register)
	getUser := ErrorHandlingMiddleware(userHandler.GetUser)

	rr := post(register, "/register", `{"full_name":"Alice Smith","email":"alice@example.com","phone":"5551234567","address":"1 Main St"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	t.Run("found", func(t *testing.T) {
		rr := get(getUser, "/users?email=alice@example.com")
		assert.Equal(t, http.StatusOK, rr.Code)

		var user model.User
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
		assert.Equal(t, "Alice Smith", user.FullName)
	})

	t.Run("not found", func(t *testing.T) {
		rr := get(getUser, "/users?email=ghost@example.com")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing email parameter", func(t *testing.T) {
		rr := get(getUser, "/users")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
