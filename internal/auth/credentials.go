// Package auth holds the security core of the service: credential
// storage/verification and the authorization policy. Everything else
// (handlers, middleware, routers) calls into this package instead of
// re-implementing checks inline, so the rules stay auditable in one place.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/task-management-system/internal/model"
	"github.com/iliyamo/task-management-system/internal/repository"
	"github.com/iliyamo/task-management-system/internal/utils"
)

// ErrInvalidCredentials is returned by Verify for BOTH an unknown email and
// a wrong password. Collapsing the two cases denies callers a probe for
// which emails are registered.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialStore owns password hashing and verification on top of a
// UserStore. Raw passwords never travel below this type.
type CredentialStore struct {
	Users repository.UserStore
	Cost  int // bcrypt cost, from BCRYPT_COST
}

func NewCredentialStore(users repository.UserStore, cost int) *CredentialStore {
	if users == nil {
		panic("nil user store passed to NewCredentialStore")
	}
	return &CredentialStore{Users: users, Cost: cost}
}

// Register hashes the raw password and persists a new USER-role account.
// Emails are compared case-insensitively: the address is lowercased here
// and the database holds a unique index on the column, which closes the
// race between two concurrent registrations of the same address.
func (s *CredentialStore) Register(ctx context.Context, name, email, rawPassword string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(rawPassword, s.Cost)
	if err != nil {
		return model.User{}, err
	}
	id, err := s.Users.Create(ctx, name, email, hash, model.RoleUser)
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:       id,
		Name:     name,
		Email:    email,
		Role:     model.RoleUser,
		IsActive: true,
	}, nil
}

// Verify looks a user up by email and checks the password against the
// stored bcrypt hash. Absent user and hash mismatch are indistinguishable
// to the caller. Verify performs no writes.
func (s *CredentialStore) Verify(ctx context.Context, email, rawPassword string) (model.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, rawPassword) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}
