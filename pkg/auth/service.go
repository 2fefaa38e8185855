/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package auth implements the web account layer around the gateway core:
// email/password signup, login issuing a short-lived token cookie, and the
// middleware that recovers the caller identity from it. The core never sees
// passwords or sessions — only the authenticated caller id string.
package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/simpleasset/gateway/pkg/errcode"
)

// saltRounds is the bcrypt cost factor.
const saltRounds = 10

var emailPattern = regexp.MustCompile(`^[0-9a-zA-Z]([-_.]?[0-9a-zA-Z])*@[0-9a-zA-Z]([-_.]?[0-9a-zA-Z])*\.[a-zA-Z]{2,3}$`)

// Input validation failures surfaced to the signup/login forms.
var (
	ErrInvalidEmail     = errors.New("please enter a valid email address")
	ErrPasswordMismatch = errors.New("password and password confirmation have to be the same")
	ErrMissingFields    = errors.New("please enter all the fields")
	ErrWrongPassword    = errors.New("password does not match the account")
)

// User is a stored web account.
type User struct {
	ID           string    `bson:"_id"`
	PasswordHash []byte    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// UserStore persists accounts. Create must be insert-if-absent, reporting
// errcode.AlreadyExists for a taken id; Get reports errcode.NotFound.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
}

// Service handles signup and login.
type Service struct {
	users  UserStore
	issuer *TokenIssuer
}

// NewService builds the account service.
func NewService(users UserStore, issuer *TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// Signup validates the form and creates the account with a bcrypt-hashed
// password.
func (s *Service) Signup(ctx context.Context, id, pw, pwc string) error {
	if id == "" || pw == "" || pwc == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(id) {
		return ErrInvalidEmail
	}
	if pw != pwc {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pw), saltRounds)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	return s.users.Create(ctx, &User{ID: id, PasswordHash: hash, CreatedAt: time.Now().UTC()})
}

// Login checks the password and returns a signed session token.
func (s *Service) Login(ctx context.Context, id, pw string) (string, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(pw)); err != nil {
		return "", ErrWrongPassword
	}

	return s.issuer.Issue(user.ID)
}

// IsAccountConflict reports whether err means the account id is taken.
func IsAccountConflict(err error) bool {
	return errcode.HasKind(err, errcode.AlreadyExists)
}
