package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// nativeTransferGas is the fixed gas limit of a plain value transfer.
const nativeTransferGas = 21000

// evmRPC is the subset of *ethclient.Client the EVM backend needs.
type evmRPC interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	Close()
}

// EVMClient implements port.ChainBackend for EVM-compatible networks.
type EVMClient struct {
	rpc            evmRPC
	network        entity.Network
	chainID        *big.Int
	rpcCallTimeout time.Duration
}

var _ port.ChainBackend = (*EVMClient)(nil)

// NewEVMClient dials rpcURL for network. An empty rpcURL falls back to the
// network's default endpoint.
func NewEVMClient(ctx context.Context, network entity.Network, rpcURL string, rpcCallTimeout time.Duration) (*EVMClient, error) {
	if !network.IsEVM() {
		return nil, fmt.Errorf("%w: Network must be an EVM network, got %s", domain.ErrConfiguration, network.Name())
	}
	if rpcURL == "" {
		rpcURL = network.DefaultRPCURL()
	}
	if err := validateEndpoint(rpcURL, "http", "https", "ws", "wss"); err != nil {
		return nil, err
	}

	dialCtx, cancel := withCallTimeout(ctx, rpcCallTimeout)
	defer cancel()

	ethClient, err := ethclient.DialContext(dialCtx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to RPC %s: %v", domain.ErrNetwork, rpcURL, err)
	}
	return newEVMClient(ethClient, network, rpcCallTimeout), nil
}

func newEVMClient(rpc evmRPC, network entity.Network, rpcCallTimeout time.Duration) *EVMClient {
	return &EVMClient{
		rpc:            rpc,
		network:        network,
		chainID:        new(big.Int).SetUint64(network.ChainID()),
		rpcCallTimeout: rpcCallTimeout,
	}
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.rpc.Close()
}

func (c *EVMClient) Network() entity.Network {
	return c.network
}

// GetBalance returns the latest balance of address in Wei.
func (c *EVMClient) GetBalance(ctx context.Context, address entity.Address) (entity.Balance, error) {
	if !common.IsHexAddress(address.String()) {
		return entity.Balance{}, fmt.Errorf("%w: invalid address %q: %w", domain.ErrBlockchain, address, domain.ErrInvalidAddressFormat)
	}
	return c.balanceOf(ctx, common.HexToAddress(address.String()))
}

func (c *EVMClient) balanceOf(ctx context.Context, account common.Address) (entity.Balance, error) {
	callCtx, cancel := withCallTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	wei, err := c.rpc.BalanceAt(callCtx, account, nil)
	if err != nil {
		return entity.Balance{}, fmt.Errorf("%w: failed to get balance for %s on %s: %v", domain.ErrNetwork, account.Hex(), c.network.Name(), err)
	}
	balance, err := entity.BalanceFromWei(wei)
	if err != nil {
		return entity.Balance{}, fmt.Errorf("%w: %v", domain.ErrBlockchain, err)
	}
	return balance, nil
}

// Transfer signs a legacy value transfer with privateKey and broadcasts it.
// Nothing is sent unless the key parses, derives the from address, the
// recipient is valid and the balance covers amount.
func (c *EVMClient) Transfer(
	ctx context.Context,
	from, to entity.Address,
	amount entity.Amount,
	privateKey string,
	opts ...entity.TransferOption,
) (entity.TransactionHash, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKey), "0x"))
	if err != nil {
		return entity.TransactionHash{}, fmt.Errorf("%w: %v", domain.ErrInvalidPrivateKey, err)
	}

	signer := crypto.PubkeyToAddress(key.PublicKey)
	if !common.IsHexAddress(from.String()) || signer != common.HexToAddress(from.String()) {
		return entity.TransactionHash{}, fmt.Errorf("%w: private key does not match from address", domain.ErrTransferFailed)
	}

	if !common.IsHexAddress(to.String()) {
		return entity.TransactionHash{}, fmt.Errorf("%w: invalid to address %q: %w", domain.ErrBlockchain, to, domain.ErrInvalidAddressFormat)
	}
	recipient := common.HexToAddress(to.String())

	balance, err := c.balanceOf(ctx, signer)
	if err != nil {
		return entity.TransactionHash{}, err
	}
	if !balance.Covers(amount) {
		return entity.TransactionHash{}, fmt.Errorf("%w: have %s Wei, need %s Wei", domain.ErrInsufficientBalance, balance.Wei(), amount.Wei())
	}

	callCtx, cancel := withCallTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	nonce, err := c.rpc.PendingNonceAt(callCtx, signer)
	if err != nil {
		return entity.TransactionHash{}, fmt.Errorf("%w: failed to get nonce: %v", domain.ErrTransferFailed, err)
	}

	gasPrice := entity.ApplyTransferOptions(opts...).GasPrice
	if gasPrice == nil {
		gasPrice, err = c.rpc.SuggestGasPrice(callCtx)
		if err != nil {
			return entity.TransactionHash{}, fmt.Errorf("%w: failed to get gas price: %v", domain.ErrTransferFailed, err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &recipient,
		Value:    amount.Wei(),
		Gas:      nativeTransferGas,
		GasPrice: gasPrice,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), key)
	if err != nil {
		return entity.TransactionHash{}, fmt.Errorf("%w: failed to sign transaction: %v", domain.ErrTransferFailed, err)
	}
	if err := c.rpc.SendTransaction(callCtx, signed); err != nil {
		return entity.TransactionHash{}, fmt.Errorf("%w: failed to send transaction: %v", domain.ErrTransferFailed, err)
	}

	return entity.NewTransactionHash(signed.Hash().Hex())
}

func (c *EVMClient) IsConnected(ctx context.Context) bool {
	_, err := c.GetBlockNumber(ctx)
	return err == nil
}

func (c *EVMClient) GetBlockNumber(ctx context.Context) (uint64, error) {
	callCtx, cancel := withCallTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	n, err := c.rpc.BlockNumber(callCtx)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get block number on %s: %v", domain.ErrNetwork, c.network.Name(), err)
	}
	return n, nil
}

// withCallTimeout applies timeout only when ctx carries no deadline of its own.
func withCallTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
