/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package wallet provides durable, insert-only storage for the cryptographic
// identities that authorize ledger operations. Lookups never mutate; Put is
// atomic per label so concurrent enrollments of the same label resolve to
// exactly one winner.
package wallet

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/simpleasset/gateway/pkg/errcode"
)

// Store is the persistence contract behind a Wallet. Put must behave as
// insert-if-absent: a label that is already present fails with
// errcode.AlreadyExists and leaves the stored content untouched.
type Store interface {
	Put(label string, content []byte) error
	Get(label string) ([]byte, error)
	Remove(label string) error
	Exists(label string) bool
	List() ([]string, error)
}

// A Wallet stores identity information used to connect to the ledger
// network. Instances are created using the factory methods on the
// implementing stores.
type Wallet struct {
	store Store
}

// NewWallet wraps a Store in the identity envelope handling.
func NewWallet(store Store) *Wallet {
	return &Wallet{store: store}
}

// Put inserts an identity under label. Fails with errcode.AlreadyExists if
// the label is already present; the store is insert-only at this layer.
func (w *Wallet) Put(label string, id Identity) error {
	content, err := id.toJSON()
	if err != nil {
		return err
	}

	return w.store.Put(label, content)
}

// Get loads the identity stored under label. Fails with errcode.NotFound
// if the label is absent.
func (w *Wallet) Get(label string) (Identity, error) {
	content, err := w.store.Get(label)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Wrap(err, "invalid identity format")
	}

	idType, ok := data["type"].(string)
	if !ok {
		return nil, errors.New("invalid identity format: missing type property")
	}

	var id Identity

	switch idType {
	case x509Type:
		id = &X509Identity{}
	default:
		return nil, errors.New("invalid identity format: unsupported identity type: " + idType)
	}

	return id.fromJSON(content)
}

// Exists tests whether the wallet contains an identity for the given label.
// Absence is a valid answer, not an error.
func (w *Wallet) Exists(label string) bool {
	return w.store.Exists(label)
}

// Remove deletes an identity from the wallet. Removing an absent label is
// not an error.
func (w *Wallet) Remove(label string) error {
	return w.store.Remove(label)
}

// List returns the labels of all identities in the wallet.
func (w *Wallet) List() ([]string, error) {
	return w.store.List()
}

// errAlreadyExists builds the shared insert-conflict failure for stores.
func errAlreadyExists(label string) error {
	return errcode.New(errcode.AlreadyExists, "an identity for %q already exists in the wallet", label)
}

// errNotFound builds the shared lookup failure for stores.
func errNotFound(label string) error {
	return errcode.New(errcode.NotFound, "an identity for %q does not exist in the wallet", label)
}
