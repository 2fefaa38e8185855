/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// TransactionRecord is one past write of an asset key, as reported by the
// contract's history function. Value is nil for delete records. Records are
// a read-only view of ledger state; the gateway never reorders them.
type TransactionRecord struct {
	TransactionID string    `json:"TxId"`
	Timestamp     time.Time `json:"Timestamp"`
	Value         []byte    `json:"Value"`
	IsDelete      bool      `json:"IsDelete"`
}

// rawRecord tolerates the shapes different chaincode versions emit:
// timestamps as RFC3339 strings or seconds/nanos objects, IsDelete as a
// bool or a stringified bool, Value as any JSON value or null.
type rawRecord struct {
	TxID      string          `json:"TxId"`
	Timestamp json.RawMessage `json:"Timestamp"`
	Value     json.RawMessage `json:"Value"`
	IsDelete  json.RawMessage `json:"IsDelete"`
}

type protoTimestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int64 `json:"nanos"`
}

// ParseHistory decodes the contract's history payload, preserving the order
// supplied by the network.
func ParseHistory(payload []byte) ([]TransactionRecord, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	var raws []rawRecord
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, errors.Wrap(err, "invalid history payload")
	}

	records := make([]TransactionRecord, 0, len(raws))
	for i, raw := range raws {
		record := TransactionRecord{TransactionID: raw.TxID}

		ts, err := parseTimestamp(raw.Timestamp)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid timestamp in history record %d", i)
		}
		record.Timestamp = ts

		isDelete, err := parseBool(raw.IsDelete)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid IsDelete in history record %d", i)
		}
		record.IsDelete = isDelete

		if !isDelete {
			record.Value = parseValue(raw.Value)
		}

		records = append(records, record)
	}

	return records, nil
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		ts, err := time.Parse(time.RFC3339, text)
		if err != nil {
			return time.Time{}, err
		}
		return ts.UTC(), nil
	}

	var proto protoTimestamp
	if err := json.Unmarshal(raw, &proto); err != nil {
		return time.Time{}, err
	}
	return time.Unix(proto.Seconds, proto.Nanos).UTC(), nil
}

func parseBool(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 {
		return false, nil
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return false, err
	}
	return strconv.ParseBool(text)
}

func parseValue(raw json.RawMessage) []byte {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return []byte(text)
	}

	// Structured values pass through verbatim.
	return []byte(raw)
}
