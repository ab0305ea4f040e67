package client

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"

	"github.com/gagliardetto/solana-go"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

// SolanaClient talks JSON-RPC 2.0 to a single Solana endpoint.
type SolanaClient struct {
	network   entity.Network
	rpcURL    string
	transport *httpTransport
}

var _ port.ChainBackend = (*SolanaClient)(nil)

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type jsonRPCResponse struct {
	Result jsoniter.RawMessage `json:"result"`
	Error  *jsonRPCError       `json:"error"`
}

// NewSolanaClient builds a backend for a Solana-family network. An empty rpcURL
// falls back to the network's default endpoint.
func NewSolanaClient(network entity.Network, rpcURL string, timeout time.Duration, limiter *rate.Limiter) (*SolanaClient, error) {
	if !network.IsSolana() {
		return nil, fmt.Errorf("%w: Network must be a Solana network, got %s", domain.ErrConfiguration, network.Name())
	}
	if rpcURL == "" {
		rpcURL = network.DefaultRPCURL()
	}
	if err := validateEndpoint(rpcURL, "http", "https"); err != nil {
		return nil, err
	}
	return &SolanaClient{
		network:   network,
		rpcURL:    rpcURL,
		transport: newHTTPTransport(timeout, limiter),
	}, nil
}

func (c *SolanaClient) Network() entity.Network {
	return c.network
}

func (c *SolanaClient) call(ctx context.Context, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}
	req := jsonRPCRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}

	var resp jsonRPCResponse
	if err := c.transport.postJSON(ctx, c.rpcURL, req, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("%w: RPC error %d: %s", domain.ErrBlockchain, resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Result) == 0 || bytes.Equal(resp.Result, []byte("null")) {
		return fmt.Errorf("%w: No result in RPC response for %s", domain.ErrBlockchain, method)
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s result: %v", domain.ErrBlockchain, method, err)
	}
	return nil
}

// GetBalance calls getBalance. Nodes answer either {"context":..,"value":N} or a bare N.
func (c *SolanaClient) GetBalance(ctx context.Context, address entity.Address) (entity.Balance, error) {
	if _, err := solana.PublicKeyFromBase58(address.String()); err != nil {
		return entity.Balance{}, fmt.Errorf("%w: invalid Solana address %q: %v", domain.ErrBlockchain, address, err)
	}

	var raw jsoniter.RawMessage
	if err := c.call(ctx, "getBalance", []any{address.String()}, &raw); err != nil {
		return entity.Balance{}, err
	}

	var wrapped struct {
		Value *uint64 `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Value != nil {
		return entity.BalanceFromUint64(*wrapped.Value), nil
	}
	var lamports uint64
	if err := json.Unmarshal(raw, &lamports); err != nil {
		return entity.Balance{}, fmt.Errorf("%w: unexpected getBalance result: %s", domain.ErrBlockchain, truncate(raw))
	}
	return entity.BalanceFromUint64(lamports), nil
}

// Transfer is not supported on Solana yet.
func (c *SolanaClient) Transfer(context.Context, entity.Address, entity.Address, entity.Amount, string, ...entity.TransferOption) (entity.TransactionHash, error) {
	return entity.TransactionHash{}, fmt.Errorf("%w: Solana transfers not yet implemented", domain.ErrTransferFailed)
}

// IsConnected calls getHealth.
func (c *SolanaClient) IsConnected(ctx context.Context) bool {
	var health string
	return c.call(ctx, "getHealth", nil, &health) == nil
}

// GetBlockNumber returns the current slot.
func (c *SolanaClient) GetBlockNumber(ctx context.Context) (uint64, error) {
	var slot uint64
	if err := c.call(ctx, "getSlot", nil, &slot); err != nil {
		return 0, err
	}
	return slot, nil
}
