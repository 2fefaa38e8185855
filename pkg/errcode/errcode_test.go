/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package errcode

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesKindAndMessage(t *testing.T) {
	err := New(UnknownIdentity, "no credentials for %q", "ghost")
	require.Equal(t, UnknownIdentity, err.Kind())
	require.Equal(t, `no credentials for "ghost"`, err.Error())
	require.Nil(t, err.Unwrap())
}

func TestWrapNilCauseIsNil(t *testing.T) {
	require.NoError(t, Wrap(nil, SubmissionFailed, "submit set"))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, AuthorityUnreachable, "enroll alice")
	require.EqualError(t, err, "enroll alice: connection refused")
	require.Equal(t, cause, errors.Cause(err))
	require.Equal(t, AuthorityUnreachable, KindOf(err))
}

func TestKindOfWalksWrappedChains(t *testing.T) {
	inner := New(ContractNotFound, "no contract %q", "simpleasset")
	outer := errors.WithMessage(inner, "open session")
	require.Equal(t, ContractNotFound, KindOf(outer))
	require.True(t, HasKind(outer, ContractNotFound))
	require.False(t, HasKind(outer, NetworkUnreachable))
}

func TestKindOfForeignError(t *testing.T) {
	require.Equal(t, Kind(""), KindOf(errors.New("plain")))
	require.Equal(t, Kind(""), KindOf(nil))
}
