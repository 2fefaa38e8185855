/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

// Identity represents a stored credential format. Identities are immutable
// once placed in a wallet; rotation requires an explicit Remove first.
type Identity interface {
	idType() string
	mspID() string
	toJSON() ([]byte, error)
	fromJSON(data []byte) (Identity, error)
}
