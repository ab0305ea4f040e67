package entity

import (
	"fmt"
	"math/big"

	"multichain_wallet/internal/domain"
)

// GetBalanceQuery asks for the native balance of one address on one network.
type GetBalanceQuery struct {
	Address   Address
	Network   Network
	ChainType ChainType
}

// NewGetBalanceQuery derives the chain type from the network.
func NewGetBalanceQuery(address Address, network Network) GetBalanceQuery {
	return GetBalanceQuery{Address: address, Network: network, ChainType: network.ChainType()}
}

// NewGetBalanceQueryWithChainType sets the chain type explicitly. Tests and overrides only.
func NewGetBalanceQueryWithChainType(address Address, network Network, chainType ChainType) GetBalanceQuery {
	return GetBalanceQuery{Address: address, Network: network, ChainType: chainType}
}

// BalanceQueryResult carries the balance together with the query's chain metadata.
type BalanceQueryResult struct {
	Address   Address
	Network   Network
	ChainType ChainType
	Balance   Balance
}

func NewBalanceQueryResult(address Address, network Network, balance Balance) BalanceQueryResult {
	return BalanceQueryResult{Address: address, Network: network, ChainType: network.ChainType(), Balance: balance}
}

func NewBalanceQueryResultWithChainType(address Address, network Network, chainType ChainType, balance Balance) BalanceQueryResult {
	return BalanceQueryResult{Address: address, Network: network, ChainType: chainType, Balance: balance}
}

// TransferCommand asks to move Amount minor units from FromAddress to ToAddress.
// GasPrice is optional (nil means the backend decides).
type TransferCommand struct {
	FromAddress Address
	ToAddress   Address
	Amount      Amount
	Network     Network
	PrivateKey  string
	GasPrice    *big.Int
}

// NewTransferCommand rejects a zero amount.
func NewTransferCommand(from, to Address, amount Amount, network Network, privateKey string) (TransferCommand, error) {
	if amount.IsZero() {
		return TransferCommand{}, fmt.Errorf("%w: transfer amount must be greater than zero", domain.ErrInvalidAmount)
	}
	return TransferCommand{
		FromAddress: from,
		ToAddress:   to,
		Amount:      amount,
		Network:     network,
		PrivateKey:  privateKey,
	}, nil
}

// WithGasPrice returns a copy of the command with an explicit gas price in Wei.
func (c TransferCommand) WithGasPrice(gasPrice *big.Int) TransferCommand {
	if gasPrice != nil {
		c.GasPrice = new(big.Int).Set(gasPrice)
	} else {
		c.GasPrice = nil
	}
	return c
}

// TransferResult describes a broadcast transfer.
type TransferResult struct {
	TxHash      TransactionHash
	FromAddress Address
	ToAddress   Address
	Amount      Amount
	Network     Network
}

// TransferOptions holds optional transfer parameters.
type TransferOptions struct {
	GasPrice *big.Int
}

// TransferOption configures a single transfer call.
type TransferOption func(*TransferOptions)

// WithGasPrice overrides the node's suggested gas price. Ignored by chains without gas.
func WithGasPrice(gasPrice *big.Int) TransferOption {
	return func(o *TransferOptions) {
		o.GasPrice = gasPrice
	}
}

// ApplyTransferOptions folds opts into a TransferOptions value.
func ApplyTransferOptions(opts ...TransferOption) TransferOptions {
	var o TransferOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
