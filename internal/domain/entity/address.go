package entity

import (
	"fmt"
	"strings"

	"multichain_wallet/internal/domain"
)

const (
	evmAddressLength = 42

	bitcoinAddressMinLength = 26
	bitcoinAddressMaxLength = 62

	solanaAddressMinLength = 32
	solanaAddressMaxLength = 44
)

var bitcoinAddressPrefixes = []string{"bc1", "tb1", "1", "3", "m", "n"} //nolint:gochecknoglobals

// Address is a validated, chain-agnostic wallet address. It is compared and
// hashed by its exact string form.
type Address struct {
	value string
}

// NewAddress accepts an EVM, Bitcoin or Solana shaped address. The first
// matching shape wins; anything else is rejected.
func NewAddress(raw string) (Address, error) {
	if err := validateAddress(raw); err != nil {
		return Address{}, err
	}
	return Address{value: raw}, nil
}

// MustAddress is NewAddress for constants and tests.
func MustAddress(raw string) Address {
	addr, err := NewAddress(raw)
	if err != nil {
		panic(err)
	}
	return addr
}

// NewAddressUnchecked skips validation. Use it only for values that were
// validated elsewhere (decoding stored data, trusted internal constants).
func NewAddressUnchecked(raw string) Address {
	return Address{value: raw}
}

func validateAddress(raw string) error {
	if isEVMAddress(raw) || isBitcoinAddress(raw) || isSolanaAddress(raw) {
		return nil
	}
	if strings.HasPrefix(raw, "0x") {
		if len(raw) != evmAddressLength {
			return fmt.Errorf("%w: %q has %d characters, expected %d", domain.ErrInvalidAddressLength, raw, len(raw), evmAddressLength)
		}
		return fmt.Errorf("%w: %q is not hex", domain.ErrInvalidAddressCharacters, raw)
	}
	return fmt.Errorf("%w: %q", domain.ErrInvalidAddressFormat, raw)
}

func isEVMAddress(s string) bool {
	return len(s) == evmAddressLength && strings.HasPrefix(s, "0x") && isHex(s[2:])
}

func isBitcoinAddress(s string) bool {
	if len(s) < bitcoinAddressMinLength || len(s) > bitcoinAddressMaxLength || !isAlphanumeric(s) {
		return false
	}
	for _, prefix := range bitcoinAddressPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// isSolanaAddress checks the shape only. The Solana backend decodes base58.
func isSolanaAddress(s string) bool {
	return len(s) >= solanaAddressMinLength && len(s) <= solanaAddressMaxLength && isAlphanumeric(s)
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

// IsValidFor reports whether the address has the shape used by the chain family.
func (a Address) IsValidFor(chainType ChainType) bool {
	switch chainType {
	case ChainEthereum:
		return isEVMAddress(a.value)
	case ChainBitcoin:
		return isBitcoinAddress(a.value)
	case ChainSolana:
		return isSolanaAddress(a.value)
	}
	return false
}

// ToChecksum returns the lowercase form used for EVM comparisons.
func (a Address) ToChecksum() string {
	return strings.ToLower(a.value)
}

func (a Address) IsZero() bool {
	return a.value == ""
}

func (a Address) String() string {
	return a.value
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.value), nil
}

// UnmarshalText does not validate: decoded data is trusted.
func (a *Address) UnmarshalText(text []byte) error {
	a.value = string(text)
	return nil
}
