/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package auth

import (
	"time"

	jose "github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/pkg/errors"
)

// TokenIssuer signs and verifies the short-lived session tokens carried in
// the user cookie.
type TokenIssuer struct {
	signer jose.Signer
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer builds an HS256 issuer. The ttl bounds how long a login
// stays valid.
func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: secret}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token signer")
	}
	return &TokenIssuer{signer: signer, secret: secret, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}

// Issue signs a token for the given account id.
func (ti *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.Claims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(ti.ttl)),
	}

	token, err := jwt.Signed(ti.signer).Claims(claims).CompactSerialize()
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return token, nil
}

// Verify checks the signature and expiry and returns the account id.
func (ti *TokenIssuer) Verify(token string) (string, error) {
	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return "", errors.Wrap(err, "malformed token")
	}

	var claims jwt.Claims
	if err := parsed.Claims(ti.secret, &claims); err != nil {
		return "", errors.Wrap(err, "invalid token signature")
	}

	if err := claims.Validate(jwt.Expected{Time: time.Now()}); err != nil {
		return "", errors.Wrap(err, "expired token")
	}

	return claims.Subject, nil
}
