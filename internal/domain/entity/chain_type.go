package entity

import (
	"fmt"
	"strings"
)

// ChainType is the protocol family a network belongs to.
type ChainType int

const (
	ChainEthereum ChainType = iota + 1
	ChainBitcoin
	ChainSolana
)

// AllChainTypes lists every supported chain family in a stable order.
func AllChainTypes() []ChainType {
	return []ChainType{ChainEthereum, ChainBitcoin, ChainSolana}
}

type chainMeta struct {
	name         string
	currency     string
	smallestUnit string
	decimals     uint8
}

var chainTable = map[ChainType]chainMeta{ //nolint:gochecknoglobals // static metadata
	ChainEthereum: {name: "Ethereum", currency: "ETH", smallestUnit: "Wei", decimals: 18},
	ChainBitcoin:  {name: "Bitcoin", currency: "BTC", smallestUnit: "satoshi", decimals: 8},
	ChainSolana:   {name: "Solana", currency: "SOL", smallestUnit: "lamport", decimals: 9},
}

// Name returns the display name of the chain family.
func (c ChainType) Name() string {
	if m, ok := chainTable[c]; ok {
		return m.name
	}
	return "Unknown"
}

// NativeCurrency returns the ticker of the native coin (ETH, BTC, SOL).
func (c ChainType) NativeCurrency() string {
	return chainTable[c].currency
}

// SmallestUnit returns the name of the minor unit (Wei, satoshi, lamport).
func (c ChainType) SmallestUnit() string {
	return chainTable[c].smallestUnit
}

// Decimals returns the exponent between the major and the minor unit.
func (c ChainType) Decimals() uint8 {
	return chainTable[c].decimals
}

// IsValid reports whether c is one of the known chain families.
func (c ChainType) IsValid() bool {
	_, ok := chainTable[c]
	return ok
}

func (c ChainType) String() string {
	return c.Name()
}

// ParseChainType accepts a chain family name or its currency ticker.
func ParseChainType(s string) (ChainType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ethereum", "eth", "evm":
		return ChainEthereum, nil
	case "bitcoin", "btc":
		return ChainBitcoin, nil
	case "solana", "sol":
		return ChainSolana, nil
	}
	return 0, fmt.Errorf("unknown chain type %q", s)
}

// MarshalText encodes the chain type by name.
func (c ChainType) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(c.Name())), nil
}

// UnmarshalText decodes a chain type name.
func (c *ChainType) UnmarshalText(text []byte) error {
	parsed, err := ParseChainType(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
