package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"
	"multichain_wallet/internal/infrastructure/configloader"
)

type staticRegistry map[entity.Network]string

func (r staticRegistry) Lookup(string) (entity.Network, bool) { return entity.Network{}, false }
func (r staticRegistry) Networks() []entity.Network            { return nil }
func (r staticRegistry) RPCURL(n entity.Network) string {
	if url, ok := r[n]; ok {
		return url
	}
	return n.DefaultRPCURL()
}

func noLog(string, ...any) {}

func TestBackendFactory_BuildsPerFamily(t *testing.T) {
	f := NewBackendFactory(configloader.Default(), staticRegistry{}, noLog, noLog)
	ctx := context.Background()

	for _, n := range []entity.Network{entity.NetworkSepolia, entity.NetworkBitcoinMainnet, entity.NetworkSolanaDevnet} {
		b, err := f.NewBackend(ctx, n)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", n.Identifier(), err)
		}
		if b.Network() != n {
			t.Errorf("expected %v, got %v", n, b.Network())
		}
	}
}

func TestBackendFactory_UsesRegistryEndpoint(t *testing.T) {
	url := rpcNode(t, map[string]string{"getSlot": `{"jsonrpc":"2.0","id":1,"result":12}`})
	f := NewBackendFactory(configloader.Default(), staticRegistry{entity.NetworkSolanaMainnet: url}, noLog, noLog)

	b, err := f.NewBackend(context.Background(), entity.NetworkSolanaMainnet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := b.GetBlockNumber(context.Background())
	if err != nil || n != 12 {
		t.Fatalf("expected slot 12 from the override endpoint, got %d, %v", n, err)
	}
}

func TestBackendFactory_InvalidEndpoint(t *testing.T) {
	var logged []string
	f := NewBackendFactory(configloader.Default(), staticRegistry{entity.NetworkBitcoinMainnet: "::bad::"}, noLog,
		func(msg string, _ ...any) { logged = append(logged, msg) })

	_, err := f.NewBackend(context.Background(), entity.NetworkBitcoinMainnet)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(logged) != 1 {
		t.Errorf("expected the failure to be logged once, got %v", logged)
	}
	if _, err := f.NewBackend(context.Background(), entity.Network{}); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected configuration error for an unknown network, got %v", err)
	}
}

func TestBackendFactory_CacheEnabled(t *testing.T) {
	calls := 0
	srv := newExplorer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"height":5}`))
	})
	cfg := configloader.Default()
	cfg.Cache.Enabled = true
	cfg.Cache.BlockNumberTTLSeconds = 60
	f := NewBackendFactory(cfg, staticRegistry{entity.NetworkBitcoinMainnet: srv.URL}, noLog, noLog)

	b, err := f.NewBackend(context.Background(), entity.NetworkBitcoinMainnet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if n, err := b.GetBlockNumber(context.Background()); err != nil || n != 5 {
			t.Fatalf("unexpected result %d, %v", n, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 explorer call, got %d", calls)
	}
}
