package domain

import "errors"

// Validation errors. Raised before any network call.
var (
	ErrValidation = errors.New("validation error")

	ErrInvalidAddressFormat     = errors.New("invalid address format")
	ErrInvalidAddressLength     = errors.New("invalid address length")
	ErrInvalidAddressCharacters = errors.New("invalid address characters")

	ErrInvalidTransactionHash           = errors.New("invalid transaction hash")
	ErrInvalidTransactionHashLength     = errors.New("invalid transaction hash length")
	ErrInvalidTransactionHashCharacters = errors.New("invalid transaction hash characters")

	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidBalance    = errors.New("invalid balance")
)

var (
	// ErrConfiguration is returned for uninitialized backends, bad RPC URLs and network family mismatches.
	ErrConfiguration = errors.New("configuration error")

	// ErrNetwork is returned when the transport fails (HTTP/RPC error, timeout, refused connection).
	ErrNetwork = errors.New("network error")

	// ErrBlockchain is returned when a chain answers with an unexpected or malformed payload.
	ErrBlockchain = errors.New("blockchain error")
)

// Business-rule errors.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTransferFailed      = errors.New("transfer failed")
)

// ErrorKind groups errors the way callers react to them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConfiguration
	KindNetwork
	KindBlockchain
	KindBusiness
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindNetwork:
		return "network"
	case KindBlockchain:
		return "blockchain"
	case KindBusiness:
		return "business"
	default:
		return "unknown"
	}
}

var validationErrors = []error{
	ErrValidation,
	ErrInvalidAddressFormat,
	ErrInvalidAddressLength,
	ErrInvalidAddressCharacters,
	ErrInvalidTransactionHash,
	ErrInvalidTransactionHashLength,
	ErrInvalidTransactionHashCharacters,
	ErrInvalidPrivateKey,
	ErrInvalidAmount,
	ErrInvalidBalance,
}

// KindOf classifies err. Business errors win over transport errors because a
// TransferFailed may wrap the network error that caused it.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return KindValidation
		}
	}
	switch {
	case errors.Is(err, ErrInsufficientBalance), errors.Is(err, ErrTransferFailed):
		return KindBusiness
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrBlockchain):
		return KindBlockchain
	default:
		return KindUnknown
	}
}
