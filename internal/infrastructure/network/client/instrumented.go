package client

import (
	"context"
	"time"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain/entity"
	"multichain_wallet/internal/pkg/metrics"
)

// instrumentedBackend records Prometheus call counts and latency around a ChainBackend.
type instrumentedBackend struct {
	next    port.ChainBackend
	chain   string
	network string
}

func instrument(next port.ChainBackend) port.ChainBackend {
	n := next.Network()
	return &instrumentedBackend{next: next, chain: n.ChainType().Name(), network: n.Identifier()}
}

func (b *instrumentedBackend) observe(operation string, started time.Time, err error) {
	metrics.ObserveBackendCall(b.chain, b.network, operation, started, err)
}

func (b *instrumentedBackend) GetBalance(ctx context.Context, address entity.Address) (entity.Balance, error) {
	started := time.Now()
	balance, err := b.next.GetBalance(ctx, address)
	b.observe("get_balance", started, err)
	return balance, err
}

func (b *instrumentedBackend) Transfer(ctx context.Context, from, to entity.Address, amount entity.Amount, privateKey string, opts ...entity.TransferOption) (entity.TransactionHash, error) {
	started := time.Now()
	hash, err := b.next.Transfer(ctx, from, to, amount, privateKey, opts...)
	b.observe("transfer", started, err)
	return hash, err
}

func (b *instrumentedBackend) IsConnected(ctx context.Context) bool {
	started := time.Now()
	ok := b.next.IsConnected(ctx)
	var err error
	if !ok {
		err = errNotConnected
	}
	b.observe("is_connected", started, err)
	return ok
}

func (b *instrumentedBackend) GetBlockNumber(ctx context.Context) (uint64, error) {
	started := time.Now()
	n, err := b.next.GetBlockNumber(ctx)
	b.observe("get_block_number", started, err)
	return n, err
}

func (b *instrumentedBackend) Network() entity.Network {
	return b.next.Network()
}
