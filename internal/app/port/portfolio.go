package port

import (
	"context"

	"multichain_wallet/internal/domain/entity"
)

// PortfolioService fetches native balances for many wallets across chain families.
type PortfolioService interface {
	// FetchPortfolios queries every wallet concurrently. A failing wallet never
	// cancels the others; its failure is reported as a PortfolioError.
	FetchPortfolios(ctx context.Context, wallets []entity.Wallet) ([]entity.WalletPortfolio, []entity.PortfolioError)

	// FetchAllWalletsPortfolio loads wallets from the WalletProvider and calls FetchPortfolios.
	FetchAllWalletsPortfolio(ctx context.Context) ([]entity.WalletPortfolio, []entity.PortfolioError)

	// GetFailedWallets returns addresses whose last lookup failed.
	GetFailedWallets() []string
}
