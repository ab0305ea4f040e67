package client

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"
	"time"

	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

type fakeEVMRPC struct {
	balance     *big.Int
	balanceErr  error
	block       uint64
	blockErr    error
	gasPrice    *big.Int
	sendErr     error
	balanceHits int
	nonceHits   int
	sent        []*types.Transaction
	deadlines   []bool
}

func (f *fakeEVMRPC) BalanceAt(ctx context.Context, _ common.Address, _ *big.Int) (*big.Int, error) {
	f.balanceHits++
	_, ok := ctx.Deadline()
	f.deadlines = append(f.deadlines, ok)
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeEVMRPC) BlockNumber(context.Context) (uint64, error) {
	return f.block, f.blockErr
}

func (f *fakeEVMRPC) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	f.nonceHits++
	return 7, nil
}

func (f *fakeEVMRPC) SuggestGasPrice(context.Context) (*big.Int, error) {
	return f.gasPrice, nil
}

func (f *fakeEVMRPC) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeEVMRPC) Close() {}

func newTestKey(t *testing.T) (*ecdsa.PrivateKey, string, entity.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	hexKey := common.Bytes2Hex(crypto.FromECDSA(key))
	return key, hexKey, entity.MustAddress(crypto.PubkeyToAddress(key.PublicKey).Hex())
}

var recipient = entity.MustAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEbC")

func TestEVMClient_GetBalance(t *testing.T) {
	rpc := &fakeEVMRPC{balance: big.NewInt(1_500_000_000_000_000_000)}
	c := newEVMClient(rpc, entity.NetworkSepolia, time.Second)

	balance, err := c.GetBalance(context.Background(), recipient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.FormatEther(2) != "1.50" {
		t.Errorf("expected 1.50, got %s", balance.FormatEther(2))
	}
	if len(rpc.deadlines) != 1 || !rpc.deadlines[0] {
		t.Error("expected the call timeout to set a deadline")
	}
}

func TestEVMClient_GetBalanceErrors(t *testing.T) {
	c := newEVMClient(&fakeEVMRPC{balanceErr: errors.New("dial tcp: refused")}, entity.NetworkSepolia, time.Second)
	if _, err := c.GetBalance(context.Background(), recipient); !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("expected network error, got %v", err)
	}

	btc := entity.MustAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa")
	if _, err := c.GetBalance(context.Background(), btc); !errors.Is(err, domain.ErrBlockchain) {
		t.Errorf("expected blockchain error for a non-EVM address, got %v", err)
	}
}

func TestEVMClient_CallerDeadlineWins(t *testing.T) {
	rpc := &fakeEVMRPC{balance: big.NewInt(1)}
	c := newEVMClient(rpc, entity.NetworkSepolia, 0)

	if _, err := c.GetBalance(context.Background(), recipient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := c.GetBalance(ctx, recipient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rpc.deadlines[0] || !rpc.deadlines[1] {
		t.Errorf("unexpected deadlines %v", rpc.deadlines)
	}
}

func TestEVMClient_TransferSuccess(t *testing.T) {
	_, hexKey, from := newTestKey(t)
	rpc := &fakeEVMRPC{balance: big.NewInt(1_000_000), gasPrice: big.NewInt(3)}
	c := newEVMClient(rpc, entity.NetworkSepolia, time.Second)

	hash, err := c.Transfer(context.Background(), from, recipient, entity.AmountFromUint64(1000), "0x"+hexKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rpc.sent) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(rpc.sent))
	}
	tx := rpc.sent[0]
	if hash.String() != tx.Hash().Hex() {
		t.Errorf("hash mismatch: %s vs %s", hash, tx.Hash().Hex())
	}
	if tx.Nonce() != 7 || tx.Gas() != nativeTransferGas || tx.GasPrice().Int64() != 3 || tx.Value().Int64() != 1000 {
		t.Errorf("unexpected tx fields: nonce=%d gas=%d price=%s value=%s", tx.Nonce(), tx.Gas(), tx.GasPrice(), tx.Value())
	}
	if tx.ChainId().Uint64() != entity.NetworkSepolia.ChainID() {
		t.Errorf("unexpected chain id %s", tx.ChainId())
	}
	signer, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil || signer.Hex() != from.String() {
		t.Errorf("unexpected sender %s, %v", signer.Hex(), err)
	}
}

func TestEVMClient_TransferGasPriceOption(t *testing.T) {
	_, hexKey, from := newTestKey(t)
	rpc := &fakeEVMRPC{balance: big.NewInt(1_000_000), gasPrice: big.NewInt(3)}
	c := newEVMClient(rpc, entity.NetworkMainnet, time.Second)

	_, err := c.Transfer(context.Background(), from, recipient, entity.AmountFromUint64(1), hexKey, entity.WithGasPrice(big.NewInt(99)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rpc.sent[0].GasPrice().Int64(); got != 99 {
		t.Errorf("expected gas price 99, got %d", got)
	}
}

func TestEVMClient_TransferValidationOrder(t *testing.T) {
	_, hexKey, from := newTestKey(t)
	_, otherKey, _ := newTestKey(t)

	tests := []struct {
		name         string
		from         entity.Address
		to           entity.Address
		key          string
		balance      int64
		wantErr      error
		wantBalances int
	}{
		{"bad key", from, recipient, "zz", 1_000_000, domain.ErrInvalidPrivateKey, 0},
		{"signer mismatch", from, recipient, otherKey, 1_000_000, domain.ErrTransferFailed, 0},
		{"bad recipient", from, entity.MustAddress(satoshiAddress), hexKey, 1_000_000, domain.ErrBlockchain, 0},
		{"insufficient balance", from, recipient, hexKey, 10, domain.ErrInsufficientBalance, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpc := &fakeEVMRPC{balance: big.NewInt(tt.balance), gasPrice: big.NewInt(1)}
			c := newEVMClient(rpc, entity.NetworkSepolia, time.Second)

			_, err := c.Transfer(context.Background(), tt.from, tt.to, entity.AmountFromUint64(1000), tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if rpc.balanceHits != tt.wantBalances {
				t.Errorf("expected %d balance calls, got %d", tt.wantBalances, rpc.balanceHits)
			}
			if rpc.nonceHits != 0 || len(rpc.sent) != 0 {
				t.Errorf("nothing must be sent: nonce=%d sent=%d", rpc.nonceHits, len(rpc.sent))
			}
		})
	}
}

func TestEVMClient_TransferBroadcastFailure(t *testing.T) {
	_, hexKey, from := newTestKey(t)
	rpc := &fakeEVMRPC{balance: big.NewInt(1_000_000), gasPrice: big.NewInt(1), sendErr: errors.New("nonce too low")}
	c := newEVMClient(rpc, entity.NetworkSepolia, time.Second)

	_, err := c.Transfer(context.Background(), from, recipient, entity.AmountFromUint64(1), hexKey)
	if !errors.Is(err, domain.ErrTransferFailed) {
		t.Fatalf("expected transfer failure, got %v", err)
	}
}

func TestEVMClient_Connectivity(t *testing.T) {
	c := newEVMClient(&fakeEVMRPC{block: 19_000_000}, entity.NetworkMainnet, time.Second)
	if !c.IsConnected(context.Background()) {
		t.Error("expected connected")
	}
	n, err := c.GetBlockNumber(context.Background())
	if err != nil || n != 19_000_000 {
		t.Fatalf("unexpected block %d, %v", n, err)
	}

	down := newEVMClient(&fakeEVMRPC{blockErr: errors.New("timeout")}, entity.NetworkMainnet, time.Second)
	if down.IsConnected(context.Background()) {
		t.Error("expected disconnected")
	}
	if _, err := down.GetBlockNumber(context.Background()); !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestNewEVMClient_Configuration(t *testing.T) {
	ctx := context.Background()
	if _, err := NewEVMClient(ctx, entity.NetworkSolanaMainnet, "", time.Second); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected configuration error for a Solana network, got %v", err)
	}
	if _, err := NewEVMClient(ctx, entity.NetworkSepolia, "ftp://example.org", time.Second); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected configuration error for an ftp URL, got %v", err)
	}
	c, err := NewEVMClient(ctx, entity.NetworkSepolia, "http://127.0.0.1:1", time.Second)
	if err != nil {
		t.Fatalf("http dial is lazy and must not fail: %v", err)
	}
	defer c.Close()
	if c.Network() != entity.NetworkSepolia {
		t.Errorf("unexpected network %v", c.Network())
	}
}
