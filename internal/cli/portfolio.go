package cli

import (
	"fmt"
	"text/tabwriter"

	"multichain_wallet/internal/app/service"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"
	"multichain_wallet/internal/infrastructure/walletloader"

	"github.com/spf13/cobra"
)

func newPortfolioCmd(g *globalOptions) *cobra.Command {
	var filePath, address string

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Fetch native balances for every wallet in a wallet file",
		Long: `portfolio reads a wallet file with one "<network> <address> [label]" entry
per line and queries every wallet concurrently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := newDependencies(g.cfg)
			if filePath == "" {
				filePath = deps.cfg.Portfolio.WalletsFile
			}

			wallets := walletloader.NewWalletFileLoader(filePath, deps.registry, deps.logger.Info)
			facades := service.NewFacadePool(deps.factory, deps.logger)
			portfolioService := service.NewPortfolioService(wallets, facades, deps.logger, deps.cfg.Portfolio.MaxConcurrentRequests)

			var (
				portfolios    []entity.WalletPortfolio
				serviceErrors []entity.PortfolioError
			)
			if address == "" {
				portfolios, serviceErrors = portfolioService.FetchAllWalletsPortfolio(cmd.Context())
			} else {
				tracked, err := wallets.GetWalletsByAddress(address)
				if err != nil {
					return err
				}
				portfolios, serviceErrors = portfolioService.FetchPortfolios(cmd.Context(), tracked)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WALLET\tLABEL\tNETWORK\tBALANCE")
			for _, p := range portfolios {
				for _, b := range p.Balances {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\n", p.WalletAddress, p.Label, b.NetworkName, b.FormattedBalance, b.Currency)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, e := range serviceErrors {
				if e.WalletAddress == "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e.Message)
					continue
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %s on %s: %s\n", e.WalletAddress, e.NetworkName, e.Message)
			}
			if len(portfolios) == 0 && len(serviceErrors) > 0 {
				return fmt.Errorf("%w: no portfolio could be fetched (%d errors)", domain.ErrNetwork, len(serviceErrors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "wallet file (default is portfolio.walletsFile from the config)")
	cmd.Flags().StringVarP(&address, "address", "a", "", "only query the entries tracked for this address")
	return cmd
}
