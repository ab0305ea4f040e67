package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"
)

const satoshiAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"

func newExplorer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestBitcoinClient_GetBalance(t *testing.T) {
	srv := newExplorer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/balance" || r.URL.Query().Get("active") != satoshiAddress {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"` + satoshiAddress + `":{"final_balance":7219563818,"n_tx":4021,"total_received":7219563818}}`))
	})

	c, err := NewBitcoinClient(entity.NetworkBitcoinMainnet, srv.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	balance, err := c.GetBalance(context.Background(), entity.MustAddress(satoshiAddress))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.IsZero() {
		t.Fatal("expected a positive balance")
	}
	if got := balance.FormatUnits(entity.ChainBitcoin); got != "72.19563818" {
		t.Errorf("expected 72.19563818 BTC, got %s", got)
	}
}

func TestBitcoinClient_MissingFinalBalance(t *testing.T) {
	srv := newExplorer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"` + satoshiAddress + `":{"n_tx":1}}`))
	})
	c, _ := NewBitcoinClient(entity.NetworkBitcoinMainnet, srv.URL, time.Second, nil)

	_, err := c.GetBalance(context.Background(), entity.MustAddress(satoshiAddress))
	if !errors.Is(err, domain.ErrBlockchain) {
		t.Fatalf("expected blockchain error, got %v", err)
	}
}

func TestBitcoinClient_HTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, "boom", domain.ErrNetwork},
		{"rate limited", http.StatusTooManyRequests, "slow down", domain.ErrNetwork},
		{"not json", http.StatusOK, "<html>", domain.ErrBlockchain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newExplorer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			c, _ := NewBitcoinClient(entity.NetworkBitcoinMainnet, srv.URL, time.Second, nil)
			_, err := c.GetBalance(context.Background(), entity.MustAddress(satoshiAddress))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBitcoinClient_InvalidAddressForNetwork(t *testing.T) {
	calls := 0
	srv := newExplorer(t, func(w http.ResponseWriter, r *http.Request) { calls++ })
	c, _ := NewBitcoinClient(entity.NetworkBitcoinTestnet, srv.URL, time.Second, nil)

	_, err := c.GetBalance(context.Background(), entity.MustAddress(satoshiAddress))
	if !errors.Is(err, domain.ErrBlockchain) {
		t.Fatalf("expected blockchain error for a mainnet address on testnet, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no HTTP calls, got %d", calls)
	}
}

func TestBitcoinClient_BlockNumberAndConnectivity(t *testing.T) {
	srv := newExplorer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latestblock" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"hash":"0000abc","height":840000}`))
	})
	c, _ := NewBitcoinClient(entity.NetworkBitcoinMainnet, srv.URL+"/", time.Second, nil)

	n, err := c.GetBlockNumber(context.Background())
	if err != nil || n != 840000 {
		t.Fatalf("expected 840000, got %d, %v", n, err)
	}
	if !c.IsConnected(context.Background()) {
		t.Error("expected connected")
	}

	srv.Close()
	if c.IsConnected(context.Background()) {
		t.Error("expected disconnected after the server closed")
	}
}

func TestBitcoinClient_Construction(t *testing.T) {
	if _, err := NewBitcoinClient(entity.NetworkMainnet, "", time.Second, nil); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected configuration error for an EVM network, got %v", err)
	}
	if _, err := NewBitcoinClient(entity.NetworkBitcoinMainnet, "not a url", time.Second, nil); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected configuration error for a bad URL, got %v", err)
	}
	c, err := NewBitcoinClient(entity.NetworkBitcoinMainnet, "", time.Second, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Network() != entity.NetworkBitcoinMainnet {
		t.Errorf("unexpected network %v", c.Network())
	}
}

func TestBitcoinClient_TransferUnsupported(t *testing.T) {
	c, _ := NewBitcoinClient(entity.NetworkBitcoinMainnet, "", time.Second, nil)
	_, err := c.Transfer(context.Background(), entity.MustAddress(satoshiAddress), entity.MustAddress(satoshiAddress), entity.AmountFromUint64(1), "key")
	if !errors.Is(err, domain.ErrTransferFailed) {
		t.Fatalf("expected transfer failure, got %v", err)
	}
	if domain.KindOf(err) != domain.KindBusiness {
		t.Errorf("expected business kind, got %s", domain.KindOf(err))
	}
}
