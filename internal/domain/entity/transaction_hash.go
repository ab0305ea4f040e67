package entity

import (
	"fmt"
	"strings"

	"multichain_wallet/internal/domain"
)

const transactionHashLength = 66

// TransactionHash is an EVM transaction hash: 0x followed by 64 hex characters.
type TransactionHash struct {
	value string
}

func NewTransactionHash(raw string) (TransactionHash, error) {
	if !strings.HasPrefix(raw, "0x") {
		return TransactionHash{}, fmt.Errorf("%w: %q must start with 0x", domain.ErrInvalidTransactionHash, raw)
	}
	if len(raw) != transactionHashLength {
		return TransactionHash{}, fmt.Errorf("%w: %q has %d characters, expected %d", domain.ErrInvalidTransactionHashLength, raw, len(raw), transactionHashLength)
	}
	if !isHex(raw[2:]) {
		return TransactionHash{}, fmt.Errorf("%w: %q is not hex", domain.ErrInvalidTransactionHashCharacters, raw)
	}
	return TransactionHash{value: raw}, nil
}

func NewTransactionHashUnchecked(raw string) TransactionHash {
	return TransactionHash{value: raw}
}

func (h TransactionHash) IsZero() bool {
	return h.value == ""
}

func (h TransactionHash) String() string {
	return h.value
}

func (h TransactionHash) MarshalText() ([]byte, error) {
	return []byte(h.value), nil
}

func (h *TransactionHash) UnmarshalText(text []byte) error {
	h.value = string(text)
	return nil
}
