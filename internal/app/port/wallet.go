package port

import "multichain_wallet/internal/domain/entity"

// WalletProvider defines the interface for fetching tracked wallets.
type WalletProvider interface {
	GetWallets() ([]entity.Wallet, error)
}
