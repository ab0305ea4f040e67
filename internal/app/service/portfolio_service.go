package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

// PortfolioServiceImpl implements port.PortfolioService. Balances go through a
// FacadePool so wallets on Sepolia and on Mainnet never share an EVM backend.
type PortfolioServiceImpl struct {
	walletProvider        port.WalletProvider
	facades               *FacadePool
	logger                port.Logger
	maxConcurrentRoutines int

	mu            sync.Mutex
	failedWallets map[string]bool
}

var _ port.PortfolioService = (*PortfolioServiceImpl)(nil)

// NewPortfolioService creates a new instance of PortfolioServiceImpl.
func NewPortfolioService(
	wp port.WalletProvider,
	facades *FacadePool,
	l port.Logger,
	maxRoutines int,
) *PortfolioServiceImpl {
	if maxRoutines <= 0 {
		maxRoutines = 1
	}
	return &PortfolioServiceImpl{
		walletProvider:        wp,
		facades:               facades,
		logger:                l.With("component", "PortfolioService"),
		maxConcurrentRoutines: maxRoutines,
		failedWallets:         make(map[string]bool),
	}
}

// FetchAllWalletsPortfolio loads the tracked wallets and fetches their balances.
func (s *PortfolioServiceImpl) FetchAllWalletsPortfolio(ctx context.Context) ([]entity.WalletPortfolio, []entity.PortfolioError) {
	if s.walletProvider == nil {
		return nil, []entity.PortfolioError{{Kind: domain.KindConfiguration.String(), Message: "no wallet provider configured"}}
	}
	wallets, err := s.walletProvider.GetWallets()
	if err != nil {
		s.logger.Error("Failed to get wallets", "error", err)
		return nil, []entity.PortfolioError{{Kind: domain.KindOf(err).String(), Message: fmt.Sprintf("failed to load wallets: %v", err)}}
	}
	return s.FetchPortfolios(ctx, wallets)
}

// FetchPortfolios queries every wallet concurrently, bounded by maxConcurrentRoutines.
// Portfolios come back in first-seen address order.
func (s *PortfolioServiceImpl) FetchPortfolios(ctx context.Context, wallets []entity.Wallet) ([]entity.WalletPortfolio, []entity.PortfolioError) {
	s.logger.Debug("Fetching portfolios", "wallets", len(wallets), "max_concurrency", s.maxConcurrentRoutines)

	order := make([]string, 0, len(wallets))
	portfolios := make(map[string]*entity.WalletPortfolio, len(wallets))
	for _, w := range wallets {
		key := w.Address.String()
		if _, ok := portfolios[key]; !ok {
			order = append(order, key)
			portfolios[key] = &entity.WalletPortfolio{WalletAddress: key, Label: w.Label, Balances: []entity.NetworkBalance{}}
		}
	}

	var (
		resultMu  sync.Mutex
		allErrors []entity.PortfolioError
		g         errgroup.Group
	)
	g.SetLimit(s.maxConcurrentRoutines)

	for _, w := range wallets {
		g.Go(func() error {
			balance, err := s.fetchWalletBalance(ctx, w)

			resultMu.Lock()
			defer resultMu.Unlock()

			p := portfolios[w.Address.String()]
			if err != nil {
				p.ErrorCount++
				allErrors = append(allErrors, entity.PortfolioError{
					WalletAddress: w.Address.String(),
					NetworkName:   w.Network.Name(),
					ChainType:     w.Network.ChainType(),
					Kind:          domain.KindOf(err).String(),
					Message:       err.Error(),
				})
				return nil
			}
			p.Balances = append(p.Balances, balance)
			return nil
		})
	}
	_ = g.Wait()

	result := make([]entity.WalletPortfolio, 0, len(order))
	for _, key := range order {
		p := portfolios[key]
		sort.Slice(p.Balances, func(i, j int) bool {
			return p.Balances[i].Network.Identifier() < p.Balances[j].Network.Identifier()
		})
		result = append(result, *p)
	}

	s.mu.Lock()
	for _, key := range order {
		if portfolios[key].ErrorCount > 0 {
			s.failedWallets[key] = true
		} else {
			delete(s.failedWallets, key)
		}
	}
	s.mu.Unlock()

	s.logger.Info("Portfolios fetched", "wallets", len(result), "errors", len(allErrors))
	return result, allErrors
}

func (s *PortfolioServiceImpl) fetchWalletBalance(ctx context.Context, w entity.Wallet) (entity.NetworkBalance, error) {
	svc, err := s.facades.For(ctx, w.Network)
	if err != nil {
		return entity.NetworkBalance{}, err
	}
	handler := NewGetBalanceHandler(svc, s.logger)
	result, err := handler.Handle(ctx, entity.NewGetBalanceQuery(w.Address, w.Network))
	if err != nil {
		s.logger.Warn("Balance lookup failed", "address", w.Address.String(), "network", w.Network.Name(), "error", err)
		return entity.NetworkBalance{}, err
	}
	return entity.NewNetworkBalance(result), nil
}

// GetFailedWallets returns addresses whose last lookup had at least one error.
func (s *PortfolioServiceImpl) GetFailedWallets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	failed := make([]string, 0, len(s.failedWallets))
	for addr := range s.failedWallets {
		failed = append(failed, addr)
	}
	sort.Strings(failed)
	return failed
}
