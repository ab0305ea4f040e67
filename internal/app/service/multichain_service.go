package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"
	"multichain_wallet/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// MultiChainService routes every request to the backend of the network's chain
// family. It holds at most one backend per chain type, created on demand by
// InitializeForNetwork, and can optionally be pinned to a single network.
//
// Initialization takes the write lock; steady-state dispatch only reads the map,
// so one service can be shared by concurrent handlers.
type MultiChainService struct {
	factory port.BackendFactory
	logger  port.Logger

	mu       sync.RWMutex
	backends map[entity.ChainType]port.ChainBackend

	current    entity.Network
	hasCurrent bool
}

var _ port.BackendResolver = (*MultiChainService)(nil)

// NewMultiChainService returns a service with no backends. Callers initialize
// the networks they need with InitializeForNetwork.
func NewMultiChainService(factory port.BackendFactory, logger port.Logger) *MultiChainService {
	return &MultiChainService{
		factory:  factory,
		logger:   logger.With("component", "MultiChainService"),
		backends: make(map[entity.ChainType]port.ChainBackend),
	}
}

// NewMultiChainServiceForNetwork initializes the one backend network needs and
// pins network as the target of GetBalance, Transfer, IsConnected and GetBlockNumber.
func NewMultiChainServiceForNetwork(ctx context.Context, factory port.BackendFactory, logger port.Logger, network entity.Network) (*MultiChainService, error) {
	s := NewMultiChainService(factory, logger)
	if err := s.InitializeForNetwork(ctx, network); err != nil {
		return nil, err
	}
	s.current = network
	s.hasCurrent = true
	return s, nil
}

// InitializeForNetwork creates the backend for network's chain type if the slot
// is empty. Calling it again for the same network is a no-op that keeps the
// existing backend. Calling it for a different network of an already
// initialized chain type fails; use ReinitializeForNetwork to switch.
func (s *MultiChainService) InitializeForNetwork(ctx context.Context, network entity.Network) error {
	if !network.IsKnown() {
		return fmt.Errorf("%w: unknown network", domain.ErrConfiguration)
	}
	chainType := network.ChainType()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.backends[chainType]; ok {
		if existing.Network() == network {
			s.logger.Debug("Backend already initialized", "chain", chainType.Name(), "network", network.Name())
			return nil
		}
		return fmt.Errorf("%w: %s service is already initialized for %s, cannot reuse it for %s. Call ReinitializeForNetwork() to switch networks",
			domain.ErrConfiguration, chainType.Name(), existing.Network().Name(), network.Name())
	}

	return s.initializeLocked(ctx, network)
}

// ReinitializeForNetwork replaces the backend of network's chain type.
func (s *MultiChainService) ReinitializeForNetwork(ctx context.Context, network entity.Network) error {
	if !network.IsKnown() {
		return fmt.Errorf("%w: unknown network", domain.ErrConfiguration)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.backends[network.ChainType()]; ok {
		s.logger.Info("Replacing backend", "chain", network.ChainType().Name(), "from", existing.Network().Name(), "to", network.Name())
	}
	if err := s.initializeLocked(ctx, network); err != nil {
		return err
	}
	if s.hasCurrent && s.current.ChainType() == network.ChainType() {
		s.current = network
	}
	return nil
}

func (s *MultiChainService) initializeLocked(ctx context.Context, network entity.Network) error {
	chainType := network.ChainType()
	backend, err := s.factory.NewBackend(ctx, network)
	if err != nil {
		s.logger.Error("Failed to initialize backend", "chain", chainType.Name(), "network", network.Name(), "error", err)
		return err
	}
	s.backends[chainType] = backend
	metrics.BackendsInitialized.WithLabelValues(chainType.Name(), network.Identifier()).Inc()
	s.logger.Info("Backend initialized", "chain", chainType.Name(), "network", network.String())
	return nil
}

// InitializeAll initializes every chain family that has no backend yet, using
// each family's default network.
func (s *MultiChainService) InitializeAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, chainType := range entity.AllChainTypes() {
		s.mu.RLock()
		_, ok := s.backends[chainType]
		s.mu.RUnlock()
		if ok {
			continue
		}
		network := entity.DefaultNetworkFor(chainType)
		g.Go(func() error {
			return s.InitializeForNetwork(gctx, network)
		})
	}
	return g.Wait()
}

// Resolve returns the backend serving network. It never initializes.
func (s *MultiChainService) Resolve(network entity.Network) (port.ChainBackend, error) {
	chainType := network.ChainType()

	s.mu.RLock()
	backend, ok := s.backends[chainType]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s service not initialized. Call InitializeForNetwork() first",
			domain.ErrConfiguration, chainType.Name())
	}
	if backend.Network() != network {
		return nil, fmt.Errorf("%w: %s service is initialized for %s, not %s. Call ReinitializeForNetwork() first",
			domain.ErrConfiguration, chainType.Name(), backend.Network().Name(), network.Name())
	}
	return backend, nil
}

// InitializedChains lists the chain types that currently have a backend.
func (s *MultiChainService) InitializedChains() []entity.ChainType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chains := make([]entity.ChainType, 0, len(s.backends))
	for chainType := range s.backends {
		chains = append(chains, chainType)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i] < chains[j] })
	return chains
}

// CurrentNetwork returns the pinned network, if any.
func (s *MultiChainService) CurrentNetwork() (entity.Network, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.hasCurrent
}

func (s *MultiChainService) GetBalanceForNetwork(ctx context.Context, address entity.Address, network entity.Network) (entity.Balance, error) {
	backend, err := s.Resolve(network)
	if err != nil {
		return entity.Balance{}, err
	}
	return backend.GetBalance(ctx, address)
}

func (s *MultiChainService) TransferOnNetwork(
	ctx context.Context,
	from, to entity.Address,
	amount entity.Amount,
	privateKey string,
	network entity.Network,
	opts ...entity.TransferOption,
) (entity.TransactionHash, error) {
	backend, err := s.Resolve(network)
	if err != nil {
		return entity.TransactionHash{}, err
	}
	return backend.Transfer(ctx, from, to, amount, privateKey, opts...)
}

// IsNetworkConnected never fails: an uninitialized chain reports false.
func (s *MultiChainService) IsNetworkConnected(ctx context.Context, network entity.Network) bool {
	backend, err := s.Resolve(network)
	if err != nil {
		s.logger.Debug("Connectivity check on unresolved network", "network", network.Name(), "error", err)
		return false
	}
	return backend.IsConnected(ctx)
}

func (s *MultiChainService) GetBlockNumberForNetwork(ctx context.Context, network entity.Network) (uint64, error) {
	backend, err := s.Resolve(network)
	if err != nil {
		return 0, err
	}
	return backend.GetBlockNumber(ctx)
}

func (s *MultiChainService) pinned() (entity.Network, error) {
	network, ok := s.CurrentNetwork()
	if !ok {
		return entity.Network{}, fmt.Errorf("%w: No network context set. Use GetBalanceForNetwork() or create with NewMultiChainServiceForNetwork()",
			domain.ErrConfiguration)
	}
	return network, nil
}

// GetBalance queries the pinned network.
func (s *MultiChainService) GetBalance(ctx context.Context, address entity.Address) (entity.Balance, error) {
	network, err := s.pinned()
	if err != nil {
		return entity.Balance{}, err
	}
	return s.GetBalanceForNetwork(ctx, address, network)
}

// Transfer submits a transfer on the pinned network.
func (s *MultiChainService) Transfer(ctx context.Context, from, to entity.Address, amount entity.Amount, privateKey string, opts ...entity.TransferOption) (entity.TransactionHash, error) {
	network, err := s.pinned()
	if err != nil {
		return entity.TransactionHash{}, err
	}
	return s.TransferOnNetwork(ctx, from, to, amount, privateKey, network, opts...)
}

// IsConnected probes the pinned network. Without one it reports false.
func (s *MultiChainService) IsConnected(ctx context.Context) bool {
	network, err := s.pinned()
	if err != nil {
		return false
	}
	return s.IsNetworkConnected(ctx, network)
}

// GetBlockNumber reads the block height of the pinned network.
func (s *MultiChainService) GetBlockNumber(ctx context.Context) (uint64, error) {
	network, err := s.pinned()
	if err != nil {
		return 0, err
	}
	return s.GetBlockNumberForNetwork(ctx, network)
}
