/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package enroll

import (
	"context"
	"net"

	mspclient "github.com/hyperledger/fabric-sdk-go/pkg/client/msp"
	mspprovider "github.com/hyperledger/fabric-sdk-go/pkg/common/providers/msp"
	"github.com/hyperledger/fabric-sdk-go/pkg/fabsdk"
	"github.com/pkg/errors"

	"github.com/simpleasset/gateway/internal/await"
	"github.com/simpleasset/gateway/pkg/errcode"
)

// FabricCA adapts the Fabric SDK's CA client to the CA collaborator
// contract. Register calls are signed by the CA registrar configured in the
// connection profile; the requesting admin label is validated against the
// wallet by the Service before any call reaches this adapter.
type FabricCA struct {
	client caClient
}

// caClient is the slice of the SDK msp client the adapter needs.
type caClient interface {
	Enroll(enrollmentID string, opts ...mspclient.EnrollmentOption) error
	Register(request *mspclient.RegistrationRequest) (string, error)
	GetSigningIdentity(id string) (mspSigningIdentity, error)
}

// mspSigningIdentity mirrors the credential accessors of the SDK's signing
// identity.
type mspSigningIdentity interface {
	EnrollmentCertificate() []byte
	PrivateKeyBytes() ([]byte, error)
}

// NewFabricCA builds a CA adapter from an initialized SDK instance.
func NewFabricCA(sdk *fabsdk.FabricSDK, org string) (*FabricCA, error) {
	client, err := mspclient.New(sdk.Context(), mspclient.WithOrg(org))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create CA client")
	}

	return &FabricCA{client: &sdkCAClient{client}}, nil
}

// Enroll exchanges an enrollment secret for signed credentials.
func (ca *FabricCA) Enroll(ctx context.Context, label, secret string) (*Enrollment, error) {
	err := await.ErrFunc(ctx, func() error {
		return ca.client.Enroll(label, mspclient.WithSecret(secret))
	})
	if err != nil {
		return nil, classifyCAError(err)
	}

	si, err := ca.client.GetSigningIdentity(label)
	if err != nil {
		return nil, errors.WithMessage(err, "enrolled identity not found in SDK store")
	}

	key, err := si.PrivateKeyBytes()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to export private key")
	}

	return &Enrollment{
		Certificate: si.EnrollmentCertificate(),
		PrivateKey:  key,
	}, nil
}

// Register registers a new identity with the authority and returns its
// one-time enrollment secret.
func (ca *FabricCA) Register(ctx context.Context, req *RegistrationRequest, registrarLabel string) (string, error) {
	var secret string
	err := await.ErrFunc(ctx, func() error {
		var regErr error
		secret, regErr = ca.client.Register(&mspclient.RegistrationRequest{
			Name:        req.Label,
			Type:        req.Role,
			Affiliation: req.Affiliation,
		})
		return regErr
	})
	if err != nil {
		return "", classifyCAError(err)
	}

	return secret, nil
}

// classifyCAError separates transport-level failures from CA rejections.
func classifyCAError(err error) error {
	cause := errors.Cause(err)
	if errors.Is(err, context.DeadlineExceeded) {
		return errcode.Wrap(err, errcode.AuthorityUnreachable, "certificate authority did not respond")
	}
	var netErr net.Error
	if errors.As(cause, &netErr) {
		return errcode.Wrap(err, errcode.AuthorityUnreachable, "certificate authority unreachable")
	}
	return err
}

// sdkCAClient narrows *mspclient.Client to the caClient interface.
type sdkCAClient struct {
	client *mspclient.Client
}

func (c *sdkCAClient) Enroll(enrollmentID string, opts ...mspclient.EnrollmentOption) error {
	return c.client.Enroll(enrollmentID, opts...)
}

func (c *sdkCAClient) Register(request *mspclient.RegistrationRequest) (string, error) {
	return c.client.Register(request)
}

func (c *sdkCAClient) GetSigningIdentity(id string) (mspSigningIdentity, error) {
	si, err := c.client.GetSigningIdentity(id)
	if err != nil {
		return nil, err
	}
	return &sdkSigningIdentity{si}, nil
}

type sdkSigningIdentity struct {
	si mspprovider.SigningIdentity
}

func (s *sdkSigningIdentity) EnrollmentCertificate() []byte {
	return s.si.EnrollmentCertificate()
}

func (s *sdkSigningIdentity) PrivateKeyBytes() ([]byte, error) {
	return s.si.PrivateKey().Bytes()
}
