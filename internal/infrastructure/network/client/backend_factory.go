package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"
	"multichain_wallet/internal/infrastructure/cache"
	"multichain_wallet/internal/infrastructure/configloader"

	"golang.org/x/time/rate"
)

var errNotConnected = errors.New("not connected")

// backendFactory implements port.BackendFactory. Backends of the same chain
// family share one rate limiter.
type backendFactory struct {
	registry    port.NetworkRegistry
	loggerInfo  func(msg string, args ...any)
	loggerError func(msg string, args ...any)

	rpcCallTimeout time.Duration
	rateLimit      rate.Limit
	burst          int
	cacheOpts      cache.Options
	cacheEnabled   bool

	mu       sync.Mutex
	limiters map[entity.ChainType]*rate.Limiter
}

var _ port.BackendFactory = (*backendFactory)(nil)

// NewBackendFactory creates the factory used by the routing facade.
func NewBackendFactory(
	cfg *configloader.Config,
	registry port.NetworkRegistry,
	loggerInfo func(msg string, args ...any),
	loggerError func(msg string, args ...any),
) port.BackendFactory {
	if cfg == nil {
		cfg = configloader.Default()
	}
	limit := rate.Inf
	if cfg.RPC.RateLimit > 0 {
		limit = rate.Limit(cfg.RPC.RateLimit)
	}
	return &backendFactory{
		registry:       registry,
		loggerInfo:     loggerInfo,
		loggerError:    loggerError,
		rpcCallTimeout: cfg.RPCCallTimeout(),
		rateLimit:      limit,
		burst:          cfg.RPC.BurstLimit,
		cacheEnabled:   cfg.Cache.Enabled,
		cacheOpts: cache.Options{
			BalanceTTL:      time.Duration(cfg.Cache.BalanceTTLSeconds) * time.Second,
			BlockNumberTTL:  time.Duration(cfg.Cache.BlockNumberTTLSeconds) * time.Second,
			CleanupInterval: time.Duration(cfg.Cache.CleanupIntervalSeconds) * time.Second,
		},
		limiters: make(map[entity.ChainType]*rate.Limiter),
	}
}

func (f *backendFactory) limiterFor(chainType entity.ChainType) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if l, ok := f.limiters[chainType]; ok {
		return l
	}
	l := rate.NewLimiter(f.rateLimit, f.burst)
	f.limiters[chainType] = l
	return l
}

// NewBackend builds the backend matching the network's chain family.
func (f *backendFactory) NewBackend(ctx context.Context, network entity.Network) (port.ChainBackend, error) {
	rpcURL := network.DefaultRPCURL()
	if f.registry != nil {
		rpcURL = f.registry.RPCURL(network)
	}
	f.loggerInfo("Creating chain backend", "chain", network.ChainType().Name(), "network", network.Identifier(), "rpc", rpcURL)

	var (
		backend port.ChainBackend
		err     error
	)
	switch network.ChainType() {
	case entity.ChainEthereum:
		backend, err = NewEVMClient(ctx, network, rpcURL, f.rpcCallTimeout)
	case entity.ChainBitcoin:
		backend, err = NewBitcoinClient(network, rpcURL, f.rpcCallTimeout, f.limiterFor(entity.ChainBitcoin))
	case entity.ChainSolana:
		backend, err = NewSolanaClient(network, rpcURL, f.rpcCallTimeout, f.limiterFor(entity.ChainSolana))
	default:
		err = fmt.Errorf("%w: unsupported network %s", domain.ErrConfiguration, network.Name())
	}
	if err != nil {
		f.loggerError("Failed to create chain backend", "network", network.Identifier(), "error", err)
		return nil, err
	}

	if f.cacheEnabled {
		backend = cache.Wrap(backend, f.cacheOpts)
	}
	return instrument(backend), nil
}
