package service

import (
	"context"
	"sync"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain/entity"
)

// FacadePool hands out one pinned MultiChainService per network, created on
// first use. Two EVM networks never share a backend.
type FacadePool struct {
	factory port.BackendFactory
	logger  port.Logger

	mu       sync.Mutex
	services map[entity.Network]*MultiChainService
}

func NewFacadePool(factory port.BackendFactory, logger port.Logger) *FacadePool {
	return &FacadePool{
		factory:  factory,
		logger:   logger,
		services: make(map[entity.Network]*MultiChainService),
	}
}

// For returns the facade pinned to network. Construction errors are not
// remembered, so a later call retries.
func (p *FacadePool) For(ctx context.Context, network entity.Network) (*MultiChainService, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if svc, ok := p.services[network]; ok {
		return svc, nil
	}
	svc, err := NewMultiChainServiceForNetwork(ctx, p.factory, p.logger, network)
	if err != nil {
		return nil, err
	}
	p.services[network] = svc
	return svc, nil
}

// Networks lists the networks with a live facade.
func (p *FacadePool) Networks() []entity.Network {
	p.mu.Lock()
	defer p.mu.Unlock()

	networks := make([]entity.Network, 0, len(p.services))
	for n := range p.services {
		networks = append(networks, n)
	}
	return networks
}
