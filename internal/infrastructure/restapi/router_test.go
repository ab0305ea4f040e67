package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/app/service"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"
	networkdefinition "multichain_wallet/internal/infrastructure/network/definition"
	"multichain_wallet/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	evmAddress = "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEbC"
	btcAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	txHash     = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
)

type fakeBackend struct {
	network    entity.Network
	balance    entity.Balance
	balanceErr error
	connected  bool
	block      uint64
	lastAmount entity.Amount
	lastOpts   entity.TransferOptions
	transferFn func() (entity.TransactionHash, error)
}

func (b *fakeBackend) GetBalance(context.Context, entity.Address) (entity.Balance, error) {
	return b.balance, b.balanceErr
}

func (b *fakeBackend) Transfer(_ context.Context, _, _ entity.Address, amount entity.Amount, _ string, opts ...entity.TransferOption) (entity.TransactionHash, error) {
	b.lastAmount = amount
	b.lastOpts = entity.ApplyTransferOptions(opts...)
	if b.transferFn != nil {
		return b.transferFn()
	}
	return entity.NewTransactionHash(txHash)
}

func (b *fakeBackend) IsConnected(context.Context) bool { return b.connected }

func (b *fakeBackend) GetBlockNumber(context.Context) (uint64, error) { return b.block, nil }

func (b *fakeBackend) Network() entity.Network { return b.network }

type fakeFactory struct {
	backends map[entity.Network]*fakeBackend
	err      error
}

func (f *fakeFactory) NewBackend(_ context.Context, n entity.Network) (port.ChainBackend, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.backends[n]; ok {
		return b, nil
	}
	b := &fakeBackend{network: n, connected: true}
	f.backends[n] = b
	return b, nil
}

type staticWallets []entity.Wallet

func (s staticWallets) GetWallets() ([]entity.Wallet, error) { return s, nil }

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, factory *fakeFactory, tracked staticWallets) *gin.Engine {
	t.Helper()
	registry := networkdefinition.NewRegistry(nil, logger.Nop())
	pool := service.NewFacadePool(factory, logger.Nop())
	portfolioService := service.NewPortfolioService(tracked, pool, logger.Nop(), 2)
	return SetupRouter(
		NewWalletHandler(registry, pool, logger.Nop()),
		NewPortfolioHandler(portfolioService, registry),
		logger.Nop(),
		RouterOptions{},
	)
}

func newFactory() *fakeFactory {
	return &fakeFactory{backends: make(map[entity.Network]*fakeBackend)}
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestGetBalance(t *testing.T) {
	factory := newFactory()
	factory.backends[entity.NetworkSepolia] = &fakeBackend{network: entity.NetworkSepolia, balance: entity.BalanceFromEther(10.5)}
	r := newTestRouter(t, factory, nil)

	w := doRequest(r, http.MethodGet, "/api/v1/networks/sepolia/balances/"+evmAddress, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[BalanceResponse](t, w)
	if resp.Balance != "10.5" || resp.BalanceMinor != "10500000000000000000" || resp.Currency != "ETH" || resp.Network != "sepolia" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestGetBalance_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		backendErr error
		factoryErr error
		wantStatus int
		wantKind   string
	}{
		{"unknown network", "/api/v1/networks/dogecoin/balances/" + evmAddress, nil, nil, http.StatusBadRequest, "validation"},
		{"bad address", "/api/v1/networks/sepolia/balances/0x123", nil, nil, http.StatusBadRequest, "validation"},
		{"wrong family", "/api/v1/networks/sepolia/balances/" + btcAddress, nil, nil, http.StatusBadRequest, "validation"},
		{"rpc down", "/api/v1/networks/sepolia/balances/" + evmAddress, fmt.Errorf("%w: refused", domain.ErrNetwork), nil, http.StatusBadGateway, "network"},
		{"bad payload", "/api/v1/networks/sepolia/balances/" + evmAddress, fmt.Errorf("%w: no final_balance", domain.ErrBlockchain), nil, http.StatusBadGateway, "blockchain"},
		{"bad endpoint", "/api/v1/networks/sepolia/balances/" + evmAddress, nil, fmt.Errorf("%w: Invalid RPC URL", domain.ErrConfiguration), http.StatusInternalServerError, "configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := newFactory()
			factory.err = tt.factoryErr
			factory.backends[entity.NetworkSepolia] = &fakeBackend{network: entity.NetworkSepolia, balanceErr: tt.backendErr}
			r := newTestRouter(t, factory, nil)

			w := doRequest(r, http.MethodGet, tt.path, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if resp := decode[ErrorResponse](t, w); resp.Kind != tt.wantKind || resp.RequestID == "" {
				t.Errorf("unexpected error body: %+v", resp)
			}
		})
	}
}

func TestGetStatus(t *testing.T) {
	factory := newFactory()
	factory.backends[entity.NetworkBitcoinMainnet] = &fakeBackend{network: entity.NetworkBitcoinMainnet, connected: true, block: 840000}
	factory.backends[entity.NetworkSolanaMainnet] = &fakeBackend{network: entity.NetworkSolanaMainnet, connected: false}
	r := newTestRouter(t, factory, nil)

	up := decode[StatusResponse](t, doRequest(r, http.MethodGet, "/api/v1/networks/btc/status", ""))
	if !up.Connected || up.BlockNumber == nil || *up.BlockNumber != 840000 || up.Network != "bitcoin" {
		t.Errorf("unexpected status: %+v", up)
	}
	down := decode[StatusResponse](t, doRequest(r, http.MethodGet, "/api/v1/networks/solana/status", ""))
	if down.Connected || down.BlockNumber != nil {
		t.Errorf("unexpected status: %+v", down)
	}
}

func TestListNetworks(t *testing.T) {
	r := newTestRouter(t, newFactory(), nil)
	w := doRequest(r, http.MethodGet, "/api/v1/networks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[struct {
		Networks []NetworkResponse `json:"networks"`
	}](t, w)
	if len(resp.Networks) != len(entity.BuiltinNetworks()) {
		t.Fatalf("expected %d networks, got %d", len(entity.BuiltinNetworks()), len(resp.Networks))
	}
	if resp.Networks[0].Identifier != "mainnet" || resp.Networks[0].ChainID != 1 {
		t.Errorf("unexpected first network: %+v", resp.Networks[0])
	}
}

func TestTransfer(t *testing.T) {
	factory := newFactory()
	backend := &fakeBackend{network: entity.NetworkSepolia}
	factory.backends[entity.NetworkSepolia] = backend
	r := newTestRouter(t, factory, nil)

	body := `{"from":"` + evmAddress + `","to":"0x0000000000000000000000000000000000000001","amount":"0.25","privateKey":"abc","gasPriceWei":"2000000000"}`
	w := doRequest(r, http.MethodPost, "/api/v1/networks/sepolia/transfers", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[TransferResponse](t, w)
	if resp.TxHash != txHash || resp.AmountMinor != "250000000000000000" || resp.Amount != "0.25" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if backend.lastOpts.GasPrice == nil || backend.lastOpts.GasPrice.String() != "2000000000" {
		t.Errorf("expected gas price to be forwarded, got %v", backend.lastOpts.GasPrice)
	}
	if strings.Contains(w.Body.String(), "abc") {
		t.Error("the private key must not be echoed")
	}
}

func TestTransfer_Errors(t *testing.T) {
	to := "0x0000000000000000000000000000000000000001"
	tests := []struct {
		name       string
		body       string
		transferFn func() (entity.TransactionHash, error)
		wantStatus int
	}{
		{"missing key", `{"from":"` + evmAddress + `","to":"` + to + `","amount":"1"}`, nil, http.StatusBadRequest},
		{"zero amount", `{"from":"` + evmAddress + `","to":"` + to + `","amountMinor":"0","privateKey":"k"}`, nil, http.StatusBadRequest},
		{"both amounts", `{"from":"` + evmAddress + `","to":"` + to + `","amount":"1","amountMinor":"1","privateKey":"k"}`, nil, http.StatusBadRequest},
		{"bad gas price", `{"from":"` + evmAddress + `","to":"` + to + `","amount":"1","privateKey":"k","gasPriceWei":"x"}`, nil, http.StatusBadRequest},
		{"invalid key", `{"from":"` + evmAddress + `","to":"` + to + `","amount":"1","privateKey":"k"}`, func() (entity.TransactionHash, error) {
			return entity.TransactionHash{}, domain.ErrInvalidPrivateKey
		}, http.StatusBadRequest},
		{"insufficient", `{"from":"` + evmAddress + `","to":"` + to + `","amount":"1","privateKey":"k"}`, func() (entity.TransactionHash, error) {
			return entity.TransactionHash{}, domain.ErrInsufficientBalance
		}, http.StatusUnprocessableEntity},
		{"broadcast failed", `{"from":"` + evmAddress + `","to":"` + to + `","amount":"1","privateKey":"k"}`, func() (entity.TransactionHash, error) {
			return entity.TransactionHash{}, errors.Join(domain.ErrTransferFailed, errors.New("nonce too low"))
		}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := newFactory()
			factory.backends[entity.NetworkSepolia] = &fakeBackend{network: entity.NetworkSepolia, transferFn: tt.transferFn}
			r := newTestRouter(t, factory, nil)

			w := doRequest(r, http.MethodPost, "/api/v1/networks/sepolia/transfers", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestFetchPortfolios(t *testing.T) {
	factory := newFactory()
	factory.backends[entity.NetworkBitcoinMainnet] = &fakeBackend{network: entity.NetworkBitcoinMainnet, balance: entity.BalanceFromUint64(7_219_563_818)}
	tracked := staticWallets{{Network: entity.NetworkBitcoinMainnet, Address: entity.MustAddress(btcAddress), Label: "genesis"}}
	r := newTestRouter(t, factory, tracked)

	// empty body falls back to the tracked wallets
	w := doRequest(r, http.MethodPost, "/api/v1/portfolios", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[APIPortfolioResponse](t, w)
	if len(resp.Data.Portfolios) != 1 || resp.Data.Portfolios[0].Balances[0].FormattedBalance != "72.19563818" {
		t.Fatalf("unexpected portfolios: %+v", resp.Data.Portfolios)
	}
	if resp.StatusMessage != "Portfolios retrieved successfully." {
		t.Errorf("unexpected status message %q", resp.StatusMessage)
	}

	body := `{"wallets":[{"network":"sepolia","address":"` + evmAddress + `"}]}`
	explicit := decode[APIPortfolioResponse](t, doRequest(r, http.MethodPost, "/api/v1/portfolios", body))
	if len(explicit.Data.Portfolios) != 1 || explicit.Data.Portfolios[0].WalletAddress != evmAddress {
		t.Errorf("unexpected explicit portfolios: %+v", explicit.Data.Portfolios)
	}

	bad := doRequest(r, http.MethodPost, "/api/v1/portfolios", `{"wallets":[{"network":"nope","address":"`+evmAddress+`"}]}`)
	if bad.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown network, got %d", bad.Code)
	}

	failed := doRequest(r, http.MethodGet, "/api/v1/portfolios/failed", "")
	if failed.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", failed.Code)
	}
}

func TestMetricsAndHealth(t *testing.T) {
	r := newTestRouter(t, newFactory(), nil)
	if w := doRequest(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", w.Code)
	}
	_ = doRequest(r, http.MethodGet, "/api/v1/networks", "")
	w := doRequest(r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "wallet_http_requests_total") {
		t.Errorf("expected request counter in /metrics output")
	}
}
