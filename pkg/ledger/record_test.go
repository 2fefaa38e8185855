/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseHistoryPreservesNetworkOrder(t *testing.T) {
	payload := []byte(`[
		{"TxId":"tx3","Timestamp":"2021-06-03T10:00:00Z","IsDelete":false,"Value":"v3"},
		{"TxId":"tx1","Timestamp":"2021-06-01T10:00:00Z","IsDelete":false,"Value":"v1"},
		{"TxId":"tx2","Timestamp":"2021-06-02T10:00:00Z","IsDelete":false,"Value":"v2"}
	]`)

	records, err := ParseHistory(payload)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Reverse-chronological input stays exactly as supplied.
	require.Equal(t, "tx3", records[0].TransactionID)
	require.Equal(t, "tx1", records[1].TransactionID)
	require.Equal(t, "tx2", records[2].TransactionID)
	require.Equal(t, []byte("v1"), records[1].Value)
	require.Equal(t, time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC), records[1].Timestamp)
}

func TestParseHistoryDeleteRecordHasNilValue(t *testing.T) {
	payload := []byte(`[
		{"TxId":"tx1","Timestamp":"2021-06-01T10:00:00Z","IsDelete":false,"Value":"v1"},
		{"TxId":"tx2","Timestamp":"2021-06-02T10:00:00Z","IsDelete":true,"Value":null}
	]`)

	records, err := ParseHistory(payload)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.False(t, records[0].IsDelete)
	require.True(t, records[1].IsDelete)
	require.Nil(t, records[1].Value)
}

func TestParseHistoryStringifiedBoolAndProtoTimestamp(t *testing.T) {
	payload := []byte(`[
		{"TxId":"tx1","Timestamp":{"seconds":1622541600,"nanos":0},"IsDelete":"true","Value":null}
	]`)

	records, err := ParseHistory(payload)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].IsDelete)
	require.Equal(t, time.Unix(1622541600, 0).UTC(), records[0].Timestamp)
}

func TestParseHistoryStructuredValuePassesThrough(t *testing.T) {
	payload := []byte(`[
		{"TxId":"tx1","Timestamp":"2021-06-01T10:00:00Z","IsDelete":false,"Value":{"key":"k1","value":"v1"}}
	]`)

	records, err := ParseHistory(payload)
	require.NoError(t, err)
	require.JSONEq(t, `{"key":"k1","value":"v1"}`, string(records[0].Value))
}

func TestParseHistoryEmptyPayload(t *testing.T) {
	records, err := ParseHistory(nil)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestParseHistoryMalformedPayload(t *testing.T) {
	_, err := ParseHistory([]byte(`{"not":"an array"}`))
	require.Error(t, err)
}
