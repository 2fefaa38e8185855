/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package enroll turns enrollment secrets and registration requests into
// signed credentials through a certificate authority, and persists them in
// the wallet. Both flows rely on the wallet's insert-only Put, so a label
// can never end up with two competing identities.
package enroll

import (
	"context"

	"go.uber.org/zap"

	"github.com/simpleasset/gateway/pkg/errcode"
	"github.com/simpleasset/gateway/pkg/wallet"
)

// Enrollment is the credential material returned by a successful CA enroll.
type Enrollment struct {
	Certificate []byte
	PrivateKey  []byte
}

// RegistrationRequest describes a delegated registration performed by an
// already-enrolled administrator.
type RegistrationRequest struct {
	Label       string
	Role        string
	Affiliation string
}

// CA is the certificate authority collaborator. Implementations must honor
// the context deadline and report transport-level failures with kind
// errcode.AuthorityUnreachable; any other failure is treated as a rejection.
type CA interface {
	Enroll(ctx context.Context, label, secret string) (*Enrollment, error)
	Register(ctx context.Context, req *RegistrationRequest, registrarLabel string) (secret string, err error)
}

// Service implements the two enrollment flows.
type Service struct {
	wallet *wallet.Wallet
	ca     CA
	mspID  string
	logger *zap.Logger
}

// NewService builds an enrollment service storing identities under mspID.
func NewService(w *wallet.Wallet, ca CA, mspID string, logger *zap.Logger) *Service {
	return &Service{wallet: w, ca: ca, mspID: mspID, logger: logger.Named("enroll")}
}

// Enroll performs the bootstrap self-enroll flow: exchange label+secret for
// signed credentials and store them. Fails with AlreadyEnrolled if the label
// already holds an identity, including when a concurrent enrollment wins the
// insert race.
func (s *Service) Enroll(ctx context.Context, label, secret string) error {
	if s.wallet.Exists(label) {
		return errcode.New(errcode.AlreadyEnrolled, "an identity for %q already exists in the wallet", label)
	}

	enrollment, err := s.ca.Enroll(ctx, label, secret)
	if err != nil {
		if errcode.HasKind(err, errcode.AuthorityUnreachable) {
			return err
		}
		return errcode.Wrap(err, errcode.EnrollmentFailed, "failed to enroll %q", label)
	}

	id := wallet.NewX509Identity(s.mspID, string(enrollment.Certificate), string(enrollment.PrivateKey))
	if err := s.wallet.Put(label, id); err != nil {
		if errcode.HasKind(err, errcode.AlreadyExists) {
			return errcode.New(errcode.AlreadyEnrolled, "an identity for %q already exists in the wallet", label)
		}
		return err
	}

	s.logger.Info("enrolled identity", zap.String("label", label))
	return nil
}

// Register performs the delegated register-and-enroll flow under the given
// administrator identity. The wallet is only written after both CA steps
// succeed; a failed attempt leaves the label free for a later retry.
func (s *Service) Register(ctx context.Context, req *RegistrationRequest, adminLabel string) error {
	// The admin and target labels are distinct checks: the admin must be
	// enrolled, the target must not be.
	if !s.wallet.Exists(adminLabel) {
		return errcode.New(errcode.UnknownIdentity, "an identity for the admin %q does not exist in the wallet", adminLabel)
	}
	if s.wallet.Exists(req.Label) {
		return errcode.New(errcode.AlreadyExists, "an identity for %q already exists in the wallet", req.Label)
	}

	secret, err := s.ca.Register(ctx, req, adminLabel)
	if err != nil {
		if errcode.HasKind(err, errcode.AuthorityUnreachable) {
			return err
		}
		return errcode.Wrap(err, errcode.RegistrationFailed, "failed to register %q", req.Label)
	}

	enrollment, err := s.ca.Enroll(ctx, req.Label, secret)
	if err != nil {
		if errcode.HasKind(err, errcode.AuthorityUnreachable) {
			return err
		}
		return errcode.Wrap(err, errcode.EnrollmentFailed, "failed to enroll %q", req.Label)
	}

	id := wallet.NewX509Identity(s.mspID, string(enrollment.Certificate), string(enrollment.PrivateKey))
	if err := s.wallet.Put(req.Label, id); err != nil {
		return err
	}

	s.logger.Info("registered and enrolled identity",
		zap.String("label", req.Label),
		zap.String("role", req.Role),
		zap.String("affiliation", req.Affiliation))
	return nil
}
