package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain/entity"
	"multichain_wallet/internal/infrastructure/configloader"
)

// Registry resolves network identifiers to networks and knows the effective
// RPC endpoint of each of them.
type Registry struct {
	logger    port.Logger
	custom    map[string]entity.Network
	overrides map[entity.Network]string
}

var _ port.NetworkRegistry = (*Registry)(nil)

// NewRegistry builds a registry from the built-in networks plus the custom
// networks and endpoint overrides in cfg. Overrides for unknown identifiers
// are logged and ignored.
func NewRegistry(cfg *configloader.Config, log port.Logger) *Registry {
	r := &Registry{
		logger:    log,
		custom:    make(map[string]entity.Network),
		overrides: make(map[entity.Network]string),
	}
	if cfg == nil {
		return r
	}

	for _, c := range cfg.CustomNetworks {
		n := entity.NewCustomNetwork(c.Name, c.ChainID, c.RPCURL)
		id := n.Identifier()
		if _, builtin := entity.LookupNetwork(id); builtin {
			r.logger.Warn(fmt.Sprintf("Custom network '%s' shadows a built-in identifier. Skipping.", c.Name))
			continue
		}
		r.custom[id] = n
		r.logger.Debug("Custom network registered", "identifier", id, "chain_id", c.ChainID)
	}

	for id, override := range cfg.Networks {
		if override.RPCURL == "" {
			continue
		}
		n, ok := r.Lookup(id)
		if !ok {
			r.logger.Warn(fmt.Sprintf("RPC override for unknown network '%s'. Skipping.", id))
			continue
		}
		r.overrides[n] = override.RPCURL
		r.logger.Debug("RPC override applied", "network", n.Identifier())
	}

	r.logger.Info(fmt.Sprintf("Network registry initialized. Networks: %d (custom: %d, overrides: %d)",
		len(entity.BuiltinNetworks())+len(r.custom), len(r.custom), len(r.overrides)))
	return r
}

// Lookup resolves a built-in identifier or alias, then a custom network name.
func (r *Registry) Lookup(identifier string) (entity.Network, bool) {
	if n, ok := entity.LookupNetwork(identifier); ok {
		return n, true
	}
	id := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(identifier), " ", "-"))
	n, ok := r.custom[id]
	return n, ok
}

// MustLookup is Lookup returning a validation-style error for unknown identifiers.
func (r *Registry) MustLookup(identifier string) (entity.Network, error) {
	n, ok := r.Lookup(identifier)
	if !ok {
		return entity.Network{}, fmt.Errorf("unknown network %q (known: %s)", identifier, strings.Join(r.Identifiers(), ", "))
	}
	return n, nil
}

// Networks returns the built-in networks followed by custom ones sorted by identifier.
func (r *Registry) Networks() []entity.Network {
	networks := entity.BuiltinNetworks()
	custom := make([]entity.Network, 0, len(r.custom))
	for _, n := range r.custom {
		custom = append(custom, n)
	}
	sort.Slice(custom, func(i, j int) bool { return custom[i].Identifier() < custom[j].Identifier() })
	return append(networks, custom...)
}

// Identifiers lists the canonical identifier of every network.
func (r *Registry) Identifiers() []string {
	networks := r.Networks()
	ids := make([]string, len(networks))
	for i, n := range networks {
		ids[i] = n.Identifier()
	}
	return ids
}

// RPCURL returns the configured override or the network's default endpoint.
func (r *Registry) RPCURL(network entity.Network) string {
	if url, ok := r.overrides[network]; ok {
		return url
	}
	return network.DefaultRPCURL()
}
