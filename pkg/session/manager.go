/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package session opens short-lived, identity-bound connections to the
// ledger network. A Session belongs to the single request that opened it
// and must be closed on every exit path; Close is idempotent so deferred
// and explicit releases cannot double-free the connection.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/simpleasset/gateway/pkg/errcode"
	"github.com/simpleasset/gateway/pkg/wallet"
)

// Connector dials the ledger network authenticated as the given identity.
// Implementations take peer and orderer endpoints from static configuration;
// discovery is disabled.
type Connector interface {
	Connect(label string, id wallet.Identity) (Connection, error)
}

// Connection is one underlying link to the ledger network.
type Connection interface {
	Network(name string) (Network, error)
	Close()
}

// Network is a resolved channel within a connection.
type Network interface {
	Contract(name string) (Contract, error)
}

// Contract is a resolved smart contract within a network.
type Contract interface {
	Submit(fn string, args ...string) ([]byte, error)
	Evaluate(fn string, args ...string) ([]byte, error)
}

// Session binds an identity to a resolved network and contract for the
// duration of one request.
type Session struct {
	Label    string
	Contract Contract

	conn      Connection
	closeOnce sync.Once
}

// NewSession wraps an already-resolved contract and its connection. Used by
// collaborator stubs; production sessions come from Manager.Open.
func NewSession(label string, contract Contract, conn Connection) *Session {
	return &Session{Label: label, Contract: contract, conn: conn}
}

// Close releases the underlying connection. Safe to call more than once;
// only the first call releases.
func (s *Session) Close() {
	s.closeOnce.Do(s.conn.Close)
}

// Manager opens sessions against a wallet and a connector.
type Manager struct {
	wallet    *wallet.Wallet
	connector Connector
	logger    *zap.Logger
}

// NewManager builds a session manager.
func NewManager(w *wallet.Wallet, connector Connector, logger *zap.Logger) *Manager {
	return &Manager{wallet: w, connector: connector, logger: logger.Named("session")}
}

// Open connects to the ledger network as the identity stored under label and
// resolves the named channel and contract. The wallet check runs before any
// dial: an unknown label never touches the network.
func (m *Manager) Open(ctx context.Context, label, networkName, contractName string) (*Session, error) {
	if !m.wallet.Exists(label) {
		return nil, errcode.New(errcode.UnknownIdentity, "an identity for %q does not exist in the wallet", label)
	}

	id, err := m.wallet.Get(label)
	if err != nil {
		if errcode.HasKind(err, errcode.NotFound) {
			return nil, errcode.New(errcode.UnknownIdentity, "an identity for %q does not exist in the wallet", label)
		}
		return nil, err
	}

	conn, err := m.dial(ctx, label, id)
	if err != nil {
		return nil, err
	}

	network, err := conn.Network(networkName)
	if err != nil {
		conn.Close()
		return nil, errcode.Wrap(err, errcode.NetworkUnreachable, "failed to resolve channel %q", networkName)
	}

	contract, err := network.Contract(contractName)
	if err != nil {
		conn.Close()
		return nil, errcode.Wrap(err, errcode.ContractNotFound, "failed to resolve contract %q on channel %q", contractName, networkName)
	}

	m.logger.Debug("session opened",
		zap.String("label", label),
		zap.String("channel", networkName),
		zap.String("contract", contractName))

	return &Session{Label: label, Contract: contract, conn: conn}, nil
}

type dialResult struct {
	conn Connection
	err  error
}

// dial runs the blocking connect under the context deadline. A connection
// that lands after expiry is closed rather than leaked.
func (m *Manager) dial(ctx context.Context, label string, id wallet.Identity) (Connection, error) {
	done := make(chan dialResult, 1)
	go func() {
		conn, err := m.connector.Connect(label, id)
		done <- dialResult{conn, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errcode.KindOf(r.err) != "" {
				return nil, r.err
			}
			return nil, errcode.Wrap(r.err, errcode.NetworkUnreachable, "failed to connect to the ledger network as %q", label)
		}
		return r.conn, nil
	case <-ctx.Done():
		go func() {
			if r := <-done; r.conn != nil {
				r.conn.Close()
			}
		}()
		return nil, errcode.Wrap(ctx.Err(), errcode.NetworkUnreachable, "timed out connecting to the ledger network as %q", label)
	}
}
