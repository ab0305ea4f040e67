package cache

import (
	"context"
	"time"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain/entity"
	"multichain_wallet/internal/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
)

const blockNumberKey = "block-number"

// Options configures CachedBackend. A zero TTL disables caching of that call.
type Options struct {
	BalanceTTL      time.Duration
	BlockNumberTTL  time.Duration
	CleanupInterval time.Duration
}

// CachedBackend wraps a ChainBackend with short-lived read caching of balances
// and block numbers. Errors are never cached. A successful transfer evicts
// the balances of both parties.
type CachedBackend struct {
	next  port.ChainBackend
	store *gocache.Cache
	opts  Options
	chain entity.ChainType
}

var _ port.ChainBackend = (*CachedBackend)(nil)

// Wrap returns next unchanged when both TTLs are zero.
func Wrap(next port.ChainBackend, opts Options) port.ChainBackend {
	if opts.BalanceTTL <= 0 && opts.BlockNumberTTL <= 0 {
		return next
	}
	return NewCachedBackend(next, opts)
}

func NewCachedBackend(next port.ChainBackend, opts Options) *CachedBackend {
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Minute
	}
	return &CachedBackend{
		next:  next,
		store: gocache.New(gocache.NoExpiration, opts.CleanupInterval),
		opts:  opts,
		chain: next.Network().ChainType(),
	}
}

// balanceKey folds case for EVM hex only. Base58 addresses are case-sensitive.
func (c *CachedBackend) balanceKey(address entity.Address) string {
	if c.chain == entity.ChainEthereum {
		return "balance:" + address.ToChecksum()
	}
	return "balance:" + address.String()
}

func (c *CachedBackend) lookup(operation, key string) (any, bool) {
	v, ok := c.store.Get(key)
	result := "miss"
	if ok {
		result = "hit"
	}
	metrics.CacheHitsTotal.WithLabelValues(c.chain.Name(), operation, result).Inc()
	return v, ok
}

func (c *CachedBackend) GetBalance(ctx context.Context, address entity.Address) (entity.Balance, error) {
	if c.opts.BalanceTTL <= 0 {
		return c.next.GetBalance(ctx, address)
	}
	key := c.balanceKey(address)
	if v, ok := c.lookup("get_balance", key); ok {
		return v.(entity.Balance), nil
	}
	balance, err := c.next.GetBalance(ctx, address)
	if err != nil {
		return entity.Balance{}, err
	}
	c.store.Set(key, balance, c.opts.BalanceTTL)
	return balance, nil
}

func (c *CachedBackend) Transfer(ctx context.Context, from, to entity.Address, amount entity.Amount, privateKey string, opts ...entity.TransferOption) (entity.TransactionHash, error) {
	hash, err := c.next.Transfer(ctx, from, to, amount, privateKey, opts...)
	if err != nil {
		return hash, err
	}
	c.store.Delete(c.balanceKey(from))
	c.store.Delete(c.balanceKey(to))
	return hash, nil
}

// IsConnected is never cached.
func (c *CachedBackend) IsConnected(ctx context.Context) bool {
	return c.next.IsConnected(ctx)
}

func (c *CachedBackend) GetBlockNumber(ctx context.Context) (uint64, error) {
	if c.opts.BlockNumberTTL <= 0 {
		return c.next.GetBlockNumber(ctx)
	}
	if v, ok := c.lookup("get_block_number", blockNumberKey); ok {
		return v.(uint64), nil
	}
	n, err := c.next.GetBlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	c.store.Set(blockNumberKey, n, c.opts.BlockNumberTTL)
	return n, nil
}

func (c *CachedBackend) Network() entity.Network {
	return c.next.Network()
}

// Flush drops every cached entry.
func (c *CachedBackend) Flush() {
	c.store.Flush()
}
