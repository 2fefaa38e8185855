/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"github.com/hyperledger/fabric-sdk-go/pkg/core/config"
	"github.com/hyperledger/fabric-sdk-go/pkg/gateway"
	"github.com/pkg/errors"

	"github.com/simpleasset/gateway/pkg/wallet"
)

// FabricConnector dials a Fabric network through the SDK gateway, using the
// connection profile for peer and orderer endpoints. Discovery stays off:
// the profile is the single source of topology.
type FabricConnector struct {
	profilePath string
}

// NewFabricConnector builds a connector from a connection profile path.
func NewFabricConnector(profilePath string) *FabricConnector {
	return &FabricConnector{profilePath: profilePath}
}

// Connect opens a gateway connection bound to the given identity. The
// identity is handed to the SDK through a throwaway in-memory wallet so the
// SDK never touches the gateway's own credential store.
func (fc *FabricConnector) Connect(label string, id wallet.Identity) (Connection, error) {
	x509, ok := id.(*wallet.X509Identity)
	if !ok {
		return nil, errors.Errorf("unsupported identity type for %q", label)
	}

	sdkWallet := gateway.NewInMemoryWallet()
	if err := sdkWallet.Put(label, gateway.NewX509Identity(x509.MSPID, x509.Certificate(), x509.Key())); err != nil {
		return nil, errors.WithMessage(err, "failed to stage identity for connection")
	}

	gw, err := gateway.Connect(
		gateway.WithConfig(config.FromFile(fc.profilePath)),
		gateway.WithIdentity(sdkWallet, label),
		gateway.WithDiscovery(false),
	)
	if err != nil {
		return nil, err
	}

	return &fabricConnection{gw: gw}, nil
}

type fabricConnection struct {
	gw *gateway.Gateway
}

func (c *fabricConnection) Network(name string) (Network, error) {
	network, err := c.gw.GetNetwork(name)
	if err != nil {
		return nil, err
	}
	return &fabricNetwork{network: network}, nil
}

func (c *fabricConnection) Close() {
	c.gw.Close()
}

type fabricNetwork struct {
	network *gateway.Network
}

func (n *fabricNetwork) Contract(name string) (Contract, error) {
	return &fabricContract{contract: n.network.GetContract(name)}, nil
}

type fabricContract struct {
	contract *gateway.Contract
}

func (fc *fabricContract) Submit(fn string, args ...string) ([]byte, error) {
	return fc.contract.SubmitTransaction(fn, args...)
}

func (fc *fabricContract) Evaluate(fn string, args ...string) ([]byte, error) {
	return fc.contract.EvaluateTransaction(fn, args...)
}
