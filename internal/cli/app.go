package cli

import (
	"context"
	"fmt"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/app/service"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"
	"multichain_wallet/internal/infrastructure/configloader"
	"multichain_wallet/internal/infrastructure/network/client"
	networkdefinition "multichain_wallet/internal/infrastructure/network/definition"
	"multichain_wallet/internal/pkg/logger"
)

// dependencies holds the objects every command builds from the config.
type dependencies struct {
	cfg      *configloader.Config
	logger   port.Logger
	registry *networkdefinition.Registry
	factory  port.BackendFactory
}

func newDependencies(cfg *configloader.Config) *dependencies {
	appLogger := logger.NewSlogAdapter()
	registry := networkdefinition.NewRegistry(cfg, appLogger)
	return &dependencies{
		cfg:      cfg,
		logger:   appLogger,
		registry: registry,
		factory:  client.NewBackendFactory(cfg, registry, appLogger.Info, appLogger.Error),
	}
}

// withRPCOverride returns dependencies where network uses rpcURL. The
// original config is not modified.
func (d *dependencies) withRPCOverride(network entity.Network, rpcURL string) *dependencies {
	if rpcURL == "" {
		return d
	}
	cfg := *d.cfg
	cfg.Networks = make(map[string]configloader.NetworkOverride, len(d.cfg.Networks)+1)
	for k, v := range d.cfg.Networks {
		cfg.Networks[k] = v
	}
	cfg.Networks[network.Identifier()] = configloader.NetworkOverride{RPCURL: rpcURL}
	return newDependencies(&cfg)
}

func (d *dependencies) network(identifier string) (entity.Network, error) {
	n, err := d.registry.MustLookup(identifier)
	if err != nil {
		return entity.Network{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return n, nil
}

func (d *dependencies) facadeFor(ctx context.Context, network entity.Network) (*service.MultiChainService, error) {
	return service.NewMultiChainServiceForNetwork(ctx, d.factory, d.logger, network)
}

func parseAddress(raw string, network entity.Network) (entity.Address, error) {
	address, err := entity.NewAddress(raw)
	if err != nil {
		return entity.Address{}, err
	}
	if !address.IsValidFor(network.ChainType()) {
		return entity.Address{}, fmt.Errorf("%w: %s is not a %s address", domain.ErrInvalidAddressFormat, raw, network.ChainType().Name())
	}
	return address, nil
}
