package service

import (
	"context"
	"errors"
	"sync"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"
)

// =============================================================================
// Spy backend
// =============================================================================

type spyBackend struct {
	network entity.Network

	mu            sync.Mutex
	balanceCalls  int
	transferCalls int
	lastOpts      entity.TransferOptions

	BalanceFunc     func(ctx context.Context, address entity.Address) (entity.Balance, error)
	TransferFunc    func(ctx context.Context, from, to entity.Address, amount entity.Amount, privateKey string) (entity.TransactionHash, error)
	ConnectedFunc   func(ctx context.Context) bool
	BlockNumberFunc func(ctx context.Context) (uint64, error)
}

func newSpyBackend(network entity.Network) *spyBackend {
	return &spyBackend{network: network}
}

func (b *spyBackend) GetBalance(ctx context.Context, address entity.Address) (entity.Balance, error) {
	b.mu.Lock()
	b.balanceCalls++
	b.mu.Unlock()
	if b.BalanceFunc != nil {
		return b.BalanceFunc(ctx, address)
	}
	return entity.ZeroBalance(), nil
}

func (b *spyBackend) Transfer(ctx context.Context, from, to entity.Address, amount entity.Amount, privateKey string, opts ...entity.TransferOption) (entity.TransactionHash, error) {
	b.mu.Lock()
	b.transferCalls++
	b.lastOpts = entity.ApplyTransferOptions(opts...)
	b.mu.Unlock()
	if b.TransferFunc != nil {
		return b.TransferFunc(ctx, from, to, amount, privateKey)
	}
	return entity.TransactionHash{}, errors.New("transfer not configured")
}

func (b *spyBackend) IsConnected(ctx context.Context) bool {
	if b.ConnectedFunc != nil {
		return b.ConnectedFunc(ctx)
	}
	return true
}

func (b *spyBackend) GetBlockNumber(ctx context.Context) (uint64, error) {
	if b.BlockNumberFunc != nil {
		return b.BlockNumberFunc(ctx)
	}
	return 0, nil
}

func (b *spyBackend) Network() entity.Network {
	return b.network
}

func (b *spyBackend) BalanceCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balanceCalls
}

// =============================================================================
// Spy factory
// =============================================================================

type spyFactory struct {
	mu       sync.Mutex
	calls    map[entity.ChainType]int
	built    []*spyBackend
	failWith error

	// Configure is applied to every backend the factory builds.
	Configure func(b *spyBackend)
}

func newSpyFactory() *spyFactory {
	return &spyFactory{calls: make(map[entity.ChainType]int)}
}

func (f *spyFactory) NewBackend(_ context.Context, network entity.Network) (port.ChainBackend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[network.ChainType()]++
	if f.failWith != nil {
		return nil, f.failWith
	}
	b := newSpyBackend(network)
	if f.Configure != nil {
		f.Configure(b)
	}
	f.built = append(f.built, b)
	return b, nil
}

func (f *spyFactory) Calls(chainType entity.ChainType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[chainType]
}

var errConfigFactory = errors.Join(domain.ErrConfiguration, errors.New("invalid RPC URL"))
