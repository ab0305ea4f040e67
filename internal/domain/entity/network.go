package entity

import (
	"fmt"
	"strings"
)

type networkKind uint8

const (
	kindUnknown networkKind = iota
	kindMainnet
	kindGoerli
	kindSepolia
	kindHolesky
	kindBSCMainnet
	kindBSCTestnet
	kindBitcoinMainnet
	kindBitcoinTestnet
	kindSolanaMainnet
	kindSolanaDevnet
	kindSolanaTestnet
	kindCustom
)

type networkFamily uint8

const (
	familyEVM networkFamily = iota + 1
	familyBitcoin
	familySolana
)

type networkMeta struct {
	identifier string
	name       string
	chainID    uint64
	rpcURL     string
	family     networkFamily
	testnet    bool
	bsc        bool
}

// NoChainID is reported by networks outside the EVM family.
const NoChainID uint64 = 0

var networkTable = map[networkKind]networkMeta{ //nolint:gochecknoglobals // static network metadata
	kindMainnet:        {identifier: "mainnet", name: "Ethereum Mainnet", chainID: 1, rpcURL: "https://eth.llamarpc.com", family: familyEVM},
	kindGoerli:         {identifier: "goerli", name: "Goerli Testnet", chainID: 5, rpcURL: "https://goerli.infura.io/v3/", family: familyEVM, testnet: true},
	kindSepolia:        {identifier: "sepolia", name: "Sepolia Testnet", chainID: 11155111, rpcURL: "https://sepolia.infura.io/v3/", family: familyEVM, testnet: true},
	kindHolesky:        {identifier: "holesky", name: "Holesky Testnet", chainID: 17000, rpcURL: "https://holesky.infura.io/v3/", family: familyEVM, testnet: true},
	kindBSCMainnet:     {identifier: "bsc", name: "BSC Mainnet", chainID: 56, rpcURL: "https://bsc-dataseed.binance.org", family: familyEVM, bsc: true},
	kindBSCTestnet:     {identifier: "bsc-testnet", name: "BSC Testnet", chainID: 97, rpcURL: "https://data-seed-prebsc-1-s1.binance.org:8545", family: familyEVM, testnet: true, bsc: true},
	kindBitcoinMainnet: {identifier: "bitcoin", name: "Bitcoin Mainnet", chainID: NoChainID, rpcURL: "https://blockchain.info", family: familyBitcoin},
	kindBitcoinTestnet: {identifier: "bitcoin-testnet", name: "Bitcoin Testnet", chainID: NoChainID, rpcURL: "https://testnet.blockchain.info", family: familyBitcoin, testnet: true},
	kindSolanaMainnet:  {identifier: "solana", name: "Solana Mainnet", chainID: NoChainID, rpcURL: "https://api.mainnet-beta.solana.com", family: familySolana},
	kindSolanaDevnet:   {identifier: "solana-devnet", name: "Solana Devnet", chainID: NoChainID, rpcURL: "https://api.devnet.solana.com", family: familySolana, testnet: true},
	kindSolanaTestnet:  {identifier: "solana-testnet", name: "Solana Testnet", chainID: NoChainID, rpcURL: "https://api.testnet.solana.com", family: familySolana, testnet: true},
}

// Network is a concrete deployment of a chain family. Values are comparable and
// safe to use as map keys. The zero value is an unknown network.
type Network struct {
	kind networkKind

	// Set only for custom networks.
	name    string
	chainID uint64
	rpcURL  string
}

// Built-in networks.
var ( //nolint:gochecknoglobals // immutable enumeration values
	NetworkMainnet        = Network{kind: kindMainnet}
	NetworkGoerli         = Network{kind: kindGoerli}
	NetworkSepolia        = Network{kind: kindSepolia}
	NetworkHolesky        = Network{kind: kindHolesky}
	NetworkBSCMainnet     = Network{kind: kindBSCMainnet}
	NetworkBSCTestnet     = Network{kind: kindBSCTestnet}
	NetworkBitcoinMainnet = Network{kind: kindBitcoinMainnet}
	NetworkBitcoinTestnet = Network{kind: kindBitcoinTestnet}
	NetworkSolanaMainnet  = Network{kind: kindSolanaMainnet}
	NetworkSolanaDevnet   = Network{kind: kindSolanaDevnet}
	NetworkSolanaTestnet  = Network{kind: kindSolanaTestnet}
)

// DefaultNetwork is used when the caller does not name one.
var DefaultNetwork = NetworkSepolia //nolint:gochecknoglobals

// NewCustomNetwork describes an EVM-compatible chain outside the built-in list.
func NewCustomNetwork(name string, chainID uint64, rpcURL string) Network {
	return Network{kind: kindCustom, name: name, chainID: chainID, rpcURL: rpcURL}
}

// BuiltinNetworks returns the built-in networks in declaration order.
func BuiltinNetworks() []Network {
	return []Network{
		NetworkMainnet, NetworkGoerli, NetworkSepolia, NetworkHolesky,
		NetworkBSCMainnet, NetworkBSCTestnet,
		NetworkBitcoinMainnet, NetworkBitcoinTestnet,
		NetworkSolanaMainnet, NetworkSolanaDevnet, NetworkSolanaTestnet,
	}
}

// DefaultNetworkFor returns the network a chain family uses when none is given.
func DefaultNetworkFor(chainType ChainType) Network {
	switch chainType {
	case ChainBitcoin:
		return NetworkBitcoinMainnet
	case ChainSolana:
		return NetworkSolanaMainnet
	default:
		return NetworkMainnet
	}
}

// ChainID returns the EVM chain id, or NoChainID for Bitcoin and Solana.
func (n Network) ChainID() uint64 {
	if n.kind == kindCustom {
		return n.chainID
	}
	return networkTable[n.kind].chainID
}

// DefaultRPCURL returns the endpoint used when no override is configured.
func (n Network) DefaultRPCURL() string {
	if n.kind == kindCustom {
		return n.rpcURL
	}
	return networkTable[n.kind].rpcURL
}

// Name returns the human readable network name.
func (n Network) Name() string {
	switch n.kind {
	case kindCustom:
		return n.name
	case kindUnknown:
		return "Unknown"
	}
	return networkTable[n.kind].name
}

// Identifier returns the short CLI/API name, e.g. "sepolia" or "bitcoin-testnet".
func (n Network) Identifier() string {
	if n.kind == kindCustom {
		return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(n.name), " ", "-"))
	}
	return networkTable[n.kind].identifier
}

// IsTestnet reports whether the network is a test deployment. Custom networks
// are treated as testnets.
func (n Network) IsTestnet() bool {
	if n.kind == kindCustom {
		return true
	}
	return networkTable[n.kind].testnet
}

func (n Network) IsEVM() bool {
	return n.kind == kindCustom || networkTable[n.kind].family == familyEVM
}

func (n Network) IsBitcoin() bool {
	return networkTable[n.kind].family == familyBitcoin
}

func (n Network) IsSolana() bool {
	return networkTable[n.kind].family == familySolana
}

func (n Network) IsBSC() bool {
	return networkTable[n.kind].bsc
}

func (n Network) IsCustom() bool {
	return n.kind == kindCustom
}

// IsKnown is false only for the zero Network.
func (n Network) IsKnown() bool {
	return n.kind != kindUnknown
}

// ChainType maps the network onto its protocol family. Custom networks are EVM.
func (n Network) ChainType() ChainType {
	switch {
	case n.IsBitcoin():
		return ChainBitcoin
	case n.IsSolana():
		return ChainSolana
	default:
		return ChainEthereum
	}
}

// String renders "<name> (Chain ID: <id>)" for EVM networks and the plain name otherwise.
func (n Network) String() string {
	if n.IsEVM() {
		return fmt.Sprintf("%s (Chain ID: %d)", n.Name(), n.ChainID())
	}
	return n.Name()
}

// MarshalText encodes built-in networks by identifier. Custom networks carry no
// round-trippable text form and are encoded by name.
func (n Network) MarshalText() ([]byte, error) {
	return []byte(n.Identifier()), nil
}

// UnmarshalText decodes a built-in network identifier.
func (n *Network) UnmarshalText(text []byte) error {
	parsed, ok := LookupNetwork(string(text))
	if !ok {
		return fmt.Errorf("unknown network %q", string(text))
	}
	*n = parsed
	return nil
}

var networkAliases = map[string]networkKind{ //nolint:gochecknoglobals
	"ethereum":        kindMainnet,
	"eth":             kindMainnet,
	"bsc-mainnet":     kindBSCMainnet,
	"bnb":             kindBSCMainnet,
	"btc":             kindBitcoinMainnet,
	"bitcoin-mainnet": kindBitcoinMainnet,
	"btc-testnet":     kindBitcoinTestnet,
	"sol":             kindSolanaMainnet,
	"solana-mainnet":  kindSolanaMainnet,
	"sol-devnet":      kindSolanaDevnet,
}

// LookupNetwork resolves a built-in network by identifier or alias, case-insensitively.
func LookupNetwork(identifier string) (Network, bool) {
	id := strings.ToLower(strings.TrimSpace(identifier))
	for kind, meta := range networkTable {
		if meta.identifier == id {
			return Network{kind: kind}, true
		}
	}
	if kind, ok := networkAliases[id]; ok {
		return Network{kind: kind}, true
	}
	return Network{}, false
}
