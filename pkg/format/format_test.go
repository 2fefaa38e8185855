/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package format

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/simpleasset/gateway/pkg/errcode"
	"github.com/simpleasset/gateway/pkg/ledger"
)

func TestStatusOfKeepsAuthAndLedgerFailuresDistinct(t *testing.T) {
	tests := []struct {
		kind   errcode.Kind
		status int
	}{
		{errcode.UnknownIdentity, http.StatusUnauthorized},
		{errcode.NotFound, http.StatusNotFound},
		{errcode.AlreadyExists, http.StatusConflict},
		{errcode.AlreadyEnrolled, http.StatusConflict},
		{errcode.AuthorityUnreachable, http.StatusServiceUnavailable},
		{errcode.NetworkUnreachable, http.StatusServiceUnavailable},
		{errcode.ContractNotFound, http.StatusBadGateway},
		{errcode.EnrollmentFailed, http.StatusBadGateway},
		{errcode.RegistrationFailed, http.StatusBadGateway},
		{errcode.SubmissionFailed, http.StatusBadGateway},
		{errcode.EvaluationFailed, http.StatusBadGateway},
	}
	for _, test := range tests {
		t.Run(string(test.kind), func(t *testing.T) {
			err := errcode.New(test.kind, "failure")
			require.Equal(t, test.status, StatusOf(err))
		})
	}
}

func TestStatusOfForeignErrorIsInternal(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
}

func TestErrorBodyCarriesKindCode(t *testing.T) {
	err := errcode.New(errcode.UnknownIdentity, `an identity for "ghost" does not exist in the wallet`)
	body := Error(err)
	require.Equal(t, "UNKNOWN_IDENTITY", body.Code)
	require.Contains(t, body.Message, "ghost")
}

func TestRendererMessageEscapes(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	page, err := r.Message("Transaction has been submitted")
	require.NoError(t, err)
	require.Contains(t, page, "<p>Transaction has been submitted</p>")

	page, err = r.Message("<script>alert(1)</script>")
	require.NoError(t, err)
	require.NotContains(t, page, "<script>")
}

func TestRendererHistoryTable(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	records := []ledger.TransactionRecord{
		{TransactionID: "tx2", Timestamp: time.Date(2021, 6, 2, 10, 0, 0, 0, time.UTC), Value: []byte("v2")},
		{TransactionID: "tx1", Timestamp: time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC), IsDelete: true},
	}

	page, err := r.History("k1", records)
	require.NoError(t, err)
	require.Contains(t, page, "History for k1")
	require.Contains(t, page, "<td>tx2</td>")
	require.Contains(t, page, "<td>tx1</td>")
	// tx2 listed before tx1, as supplied.
	require.Less(t, strings.Index(page, "tx2"), strings.Index(page, "tx1"))
}
