/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/simpleasset/gateway/pkg/errcode"
)

// memUserStore mirrors the MongoStore contract for tests.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*User)}
}

func (s *memUserStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return errcode.New(errcode.AlreadyExists, "an account for %q already exists", user.ID)
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) Get(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, errcode.New(errcode.NotFound, "an account for %q does not exist", id)
	}
	return user, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	issuer, err := NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), 30*time.Minute)
	require.NoError(t, err)
	return NewService(newMemUserStore(), issuer)
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "alice@example.com", "pw1", "pw1"))

	token, err := svc.Login(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)

	userID, err := svc.issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", userID)
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.Signup(ctx, "", "pw", "pw"), ErrMissingFields)
	require.ErrorIs(t, svc.Signup(ctx, "not-an-email", "pw", "pw"), ErrInvalidEmail)
	require.ErrorIs(t, svc.Signup(ctx, "alice@example.com", "pw1", "pw2"), ErrPasswordMismatch)
}

func TestSignupDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "alice@example.com", "pw1", "pw1"))
	err := svc.Signup(ctx, "alice@example.com", "pw2", "pw2")
	require.True(t, IsAccountConflict(err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "alice@example.com", "pw1", "pw1"))
	_, err := svc.Login(ctx, "alice@example.com", "nope")
	require.ErrorIs(t, err, ErrWrongPassword)
}

func TestLoginUnknownAccount(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	require.Equal(t, errcode.NotFound, errcode.KindOf(err))
}

func TestTokenExpiry(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), -time.Minute)
	require.NoError(t, err)

	token, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Minute)
	require.NoError(t, err)
	other, err := NewTokenIssuer([]byte("ffffffffffffffffffffffffffffffff"), time.Minute)
	require.NoError(t, err)

	token, err := other.Issue("alice@example.com")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
}
