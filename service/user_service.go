package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"
)

var (
	ErrEmailExists  = errors.New("a user with this email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserService manages the user directory. Lookups use a cache-aside
// strategy; registration invalidates the cached entry for that email.
type UserService struct {
	store repository.IStore
	cache ICacheClient
	// serializes the read-modify-write of the users collection so two
	// concurrent registrations cannot both pass the duplicate check
	mu sync.Mutex
}

// NewUserService creates a new UserService. cache may be nil to disable
// caching.
func NewUserService(store repository.IStore, cache ICacheClient) *UserService {
	return &UserService{store: store, cache: cache}
}

// RegisterUser creates a User record, rejecting duplicate emails. Users
// are never deleted.
func (s *UserService) RegisterUser(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	log := logger.Log.WithField("email", req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers()
	if err != nil {
		return nil, fmt.Errorf("could not load users: %w", err)
	}

	for _, u := range users {
		if u.Email == req.Email {
			return nil, ErrEmailExists
		}
	}

	user := model.User{
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: time.Now().UTC(),
	}
	users = append(users, user)

	if err := s.store.CommitUsers(users); err != nil {
		return nil, fmt.Errorf("could not commit users: %w", err)
	}

	if s.cache != nil {
		s.cache.Del(ctx, userCacheKey(req.Email))
	}

	log.Info("User registered")
	return &user, nil
}

// GetUserByEmail looks a user up, utilizing a cache-aside strategy.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	cacheKey := userCacheKey(email)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var user model.User
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return &user, nil
			}
		}
	}

	users, err := s.store.LoadUsers()
	if err != nil {
		return nil, fmt.Errorf("could not load users: %w", err)
	}

	for _, u := range users {
		if u.Email == email {
			if s.cache != nil {
				if data, err := json.Marshal(u); err == nil {
					s.cache.Set(ctx, cacheKey, data, 10*time.Minute)
				}
			}
			user := u
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func userCacheKey(email string) string {
	return fmt.Sprintf("users:%s", email)
}
