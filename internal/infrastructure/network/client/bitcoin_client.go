package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"golang.org/x/time/rate"
)

// BitcoinClient reads balances and block height from a blockchain.info style explorer API.
type BitcoinClient struct {
	network   entity.Network
	baseURL   string
	params    *chaincfg.Params
	transport *httpTransport
}

var _ port.ChainBackend = (*BitcoinClient)(nil)

type bitcoinAddressBalance struct {
	FinalBalance *uint64 `json:"final_balance"`
	NTx          uint64  `json:"n_tx"`
	TotalRecv    uint64  `json:"total_received"`
}

type bitcoinLatestBlock struct {
	Height *uint64 `json:"height"`
	Hash   string  `json:"hash"`
}

// NewBitcoinClient builds a backend for a Bitcoin-family network. An empty
// baseURL falls back to the network's default explorer.
func NewBitcoinClient(network entity.Network, baseURL string, timeout time.Duration, limiter *rate.Limiter) (*BitcoinClient, error) {
	if !network.IsBitcoin() {
		return nil, fmt.Errorf("%w: Network must be a Bitcoin network, got %s", domain.ErrConfiguration, network.Name())
	}
	if baseURL == "" {
		baseURL = network.DefaultRPCURL()
	}
	if err := validateEndpoint(baseURL, "http", "https"); err != nil {
		return nil, err
	}

	params := &chaincfg.MainNetParams
	if network.IsTestnet() {
		params = &chaincfg.TestNet3Params
	}

	return &BitcoinClient{
		network:   network,
		baseURL:   strings.TrimRight(baseURL, "/"),
		params:    params,
		transport: newHTTPTransport(timeout, limiter),
	}, nil
}

func (c *BitcoinClient) Network() entity.Network {
	return c.network
}

// GetBalance calls /balance?active=<address> and reads final_balance in satoshi.
func (c *BitcoinClient) GetBalance(ctx context.Context, address entity.Address) (entity.Balance, error) {
	if _, err := btcutil.DecodeAddress(address.String(), c.params); err != nil {
		return entity.Balance{}, fmt.Errorf("%w: invalid %s address %q: %v", domain.ErrBlockchain, c.network.Name(), address, err)
	}

	requestURL := fmt.Sprintf("%s/balance?active=%s", c.baseURL, url.QueryEscape(address.String()))
	var payload map[string]bitcoinAddressBalance
	if err := c.transport.getJSON(ctx, requestURL, &payload); err != nil {
		return entity.Balance{}, err
	}

	info, ok := payload[address.String()]
	if !ok || info.FinalBalance == nil {
		return entity.Balance{}, fmt.Errorf("%w: response has no final_balance for %s", domain.ErrBlockchain, address)
	}
	return entity.BalanceFromUint64(*info.FinalBalance), nil
}

// Transfer is not supported on Bitcoin yet.
func (c *BitcoinClient) Transfer(context.Context, entity.Address, entity.Address, entity.Amount, string, ...entity.TransferOption) (entity.TransactionHash, error) {
	return entity.TransactionHash{}, fmt.Errorf("%w: Bitcoin transfers not yet implemented", domain.ErrTransferFailed)
}

func (c *BitcoinClient) IsConnected(ctx context.Context) bool {
	_, err := c.GetBlockNumber(ctx)
	return err == nil
}

// GetBlockNumber calls /latestblock.
func (c *BitcoinClient) GetBlockNumber(ctx context.Context) (uint64, error) {
	var block bitcoinLatestBlock
	if err := c.transport.getJSON(ctx, c.baseURL+"/latestblock", &block); err != nil {
		return 0, err
	}
	if block.Height == nil {
		return 0, fmt.Errorf("%w: latestblock response has no height", domain.ErrBlockchain)
	}
	return *block.Height, nil
}

func validateEndpoint(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: Invalid RPC URL %q: %v", domain.ErrConfiguration, raw, err)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: Invalid RPC URL %q: missing host", domain.ErrConfiguration, raw)
	}
	for _, s := range schemes {
		if strings.EqualFold(u.Scheme, s) {
			return nil
		}
	}
	return fmt.Errorf("%w: Invalid RPC URL %q: unsupported scheme %q", domain.ErrConfiguration, raw, u.Scheme)
}
