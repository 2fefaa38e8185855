/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simpleasset/gateway/pkg/errcode"
	"github.com/simpleasset/gateway/pkg/wallet"
)

type stubContract struct {
	payload []byte
	err     error
}

func (c *stubContract) Submit(fn string, args ...string) ([]byte, error) {
	return c.payload, c.err
}

func (c *stubContract) Evaluate(fn string, args ...string) ([]byte, error) {
	return c.payload, c.err
}

type stubNetwork struct {
	contract    Contract
	contractErr error
}

func (n *stubNetwork) Contract(name string) (Contract, error) {
	if n.contractErr != nil {
		return nil, n.contractErr
	}
	return n.contract, nil
}

type stubConnection struct {
	network    Network
	networkErr error
	closed     int
}

func (c *stubConnection) Network(name string) (Network, error) {
	if c.networkErr != nil {
		return nil, c.networkErr
	}
	return c.network, nil
}

func (c *stubConnection) Close() {
	c.closed++
}

type stubConnector struct {
	conn     *stubConnection
	err      error
	connects int
	delay    time.Duration
}

func (sc *stubConnector) Connect(label string, id wallet.Identity) (Connection, error) {
	sc.connects++
	if sc.delay > 0 {
		time.Sleep(sc.delay)
	}
	if sc.err != nil {
		return nil, sc.err
	}
	return sc.conn, nil
}

func newTestManager(t *testing.T, connector Connector) (*Manager, *wallet.Wallet) {
	t.Helper()
	w := wallet.NewInMemoryWallet()
	require.NoError(t, w.Put("alice", wallet.NewX509Identity("Org1MSP", "cert", "key")))
	return NewManager(w, connector, zap.NewNop()), w
}

func healthyConnection() *stubConnection {
	return &stubConnection{network: &stubNetwork{contract: &stubContract{payload: []byte("ok")}}}
}

func TestOpenResolvesContract(t *testing.T) {
	conn := healthyConnection()
	mgr, _ := newTestManager(t, &stubConnector{conn: conn})

	sess, err := mgr.Open(context.Background(), "alice", "mychannel", "simpleasset")
	require.NoError(t, err)
	require.Equal(t, "alice", sess.Label)
	require.NotNil(t, sess.Contract)

	sess.Close()
	require.Equal(t, 1, conn.closed)
}

func TestOpenUnknownIdentityNeverDials(t *testing.T) {
	connector := &stubConnector{conn: healthyConnection()}
	mgr, _ := newTestManager(t, connector)

	_, err := mgr.Open(context.Background(), "ghost", "mychannel", "simpleasset")
	require.Equal(t, errcode.UnknownIdentity, errcode.KindOf(err))
	require.Zero(t, connector.connects, "unknown identity must not open a network session")
}

func TestOpenConnectFailure(t *testing.T) {
	connector := &stubConnector{err: errors.New("no endorsers available")}
	mgr, _ := newTestManager(t, connector)

	_, err := mgr.Open(context.Background(), "alice", "mychannel", "simpleasset")
	require.Equal(t, errcode.NetworkUnreachable, errcode.KindOf(err))
}

func TestOpenChannelResolutionFailureClosesConnection(t *testing.T) {
	conn := &stubConnection{networkErr: errors.New("channel not configured")}
	mgr, _ := newTestManager(t, &stubConnector{conn: conn})

	_, err := mgr.Open(context.Background(), "alice", "mychannel", "simpleasset")
	require.Equal(t, errcode.NetworkUnreachable, errcode.KindOf(err))
	require.Equal(t, 1, conn.closed, "failed open must release the connection")
}

func TestOpenContractResolutionFailureClosesConnection(t *testing.T) {
	conn := &stubConnection{network: &stubNetwork{contractErr: errors.New("chaincode not installed")}}
	mgr, _ := newTestManager(t, &stubConnector{conn: conn})

	_, err := mgr.Open(context.Background(), "alice", "mychannel", "simpleasset")
	require.Equal(t, errcode.ContractNotFound, errcode.KindOf(err))
	require.Equal(t, 1, conn.closed)
}

func TestOpenTimeoutClosesLateConnection(t *testing.T) {
	conn := healthyConnection()
	connector := &stubConnector{conn: conn, delay: 50 * time.Millisecond}
	mgr, _ := newTestManager(t, connector)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := mgr.Open(ctx, "alice", "mychannel", "simpleasset")
	require.Equal(t, errcode.NetworkUnreachable, errcode.KindOf(err))

	require.Eventually(t, func() bool { return conn.closed == 1 },
		time.Second, 5*time.Millisecond, "late connection must be closed, not leaked")
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	conn := healthyConnection()
	mgr, _ := newTestManager(t, &stubConnector{conn: conn})

	sess, err := mgr.Open(context.Background(), "alice", "mychannel", "simpleasset")
	require.NoError(t, err)

	sess.Close()
	sess.Close()
	require.Equal(t, 1, conn.closed)
}
