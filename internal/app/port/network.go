package port

import (
	"context"

	"multichain_wallet/internal/domain/entity"
)

// ChainBackend is implemented once per chain family (EVM, Bitcoin, Solana).
//
// Error contract: transport failures wrap domain.ErrNetwork, malformed or
// unexpected chain payloads wrap domain.ErrBlockchain. Transfer validates the
// key, the signer, the recipient and the balance, in that order, before any
// network-mutating call.
type ChainBackend interface {
	// GetBalance returns the native balance of address in minor units.
	GetBalance(ctx context.Context, address entity.Address) (entity.Balance, error)

	// Transfer signs and broadcasts a native transfer of amount minor units.
	Transfer(ctx context.Context, from, to entity.Address, amount entity.Amount, privateKey string, opts ...entity.TransferOption) (entity.TransactionHash, error)

	// IsConnected is a best-effort liveness probe. It never fails; any error means false.
	IsConnected(ctx context.Context) bool

	// GetBlockNumber returns the block height (slot on Solana).
	GetBlockNumber(ctx context.Context) (uint64, error)

	// Network returns the network the backend was built for.
	Network() entity.Network
}

// BackendFactory builds a backend for a network. Implementations return
// domain.ErrConfiguration for bad endpoints or family mismatches.
type BackendFactory interface {
	NewBackend(ctx context.Context, network entity.Network) (ChainBackend, error)
}

// BackendResolver returns an already initialized backend for a network. It
// never initializes as a side effect.
type BackendResolver interface {
	Resolve(network entity.Network) (ChainBackend, error)
}

// NetworkRegistry parses network identifiers and knows the effective endpoint of each network.
type NetworkRegistry interface {
	// Lookup resolves an identifier such as "sepolia" or a configured custom network name.
	Lookup(identifier string) (entity.Network, bool)

	// Networks lists built-in and configured networks.
	Networks() []entity.Network

	// RPCURL returns the configured override or the network's default endpoint.
	RPCURL(network entity.Network) string
}
