package cli

import (
	"fmt"

	"multichain_wallet/internal/app/service"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"

	"github.com/spf13/cobra"
)

type balanceOptions struct {
	address string
	network string
	rpcURL  string
}

func newBalanceCmd(g *globalOptions) *cobra.Command {
	opts := &balanceOptions{}

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Query the native balance of an address",
		Example: `  wallet balance -a 0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0
  wallet balance -a 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa -n bitcoin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd, newDependencies(g.cfg), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.address, "address", "a", "", "address to query")
	cmd.Flags().StringVarP(&opts.network, "network", "n", "sepolia", "network identifier")
	cmd.Flags().StringVarP(&opts.rpcURL, "rpc", "r", "", "RPC endpoint, overrides the configured one")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

func runBalance(cmd *cobra.Command, deps *dependencies, opts *balanceOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	network, err := deps.network(opts.network)
	if err != nil {
		return err
	}
	deps = deps.withRPCOverride(network, opts.rpcURL)

	address, err := parseAddress(opts.address, network)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Querying balance...")
	fmt.Fprintf(out, "Address: %s\n", address)
	fmt.Fprintf(out, "Network: %s\n", network)
	fmt.Fprintf(out, "RPC URL: %s\n", deps.registry.RPCURL(network))

	facade, err := deps.facadeFor(ctx, network)
	if err != nil {
		return err
	}
	if !facade.IsConnected(ctx) {
		return fmt.Errorf("%w: failed to connect to network %s", domain.ErrNetwork, network.Name())
	}

	block, err := facade.GetBlockNumber(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Current Block: #%d\n", block)

	result, err := service.NewGetBalanceHandler(facade, deps.logger).Handle(ctx, entity.NewGetBalanceQuery(address, network))
	if err != nil {
		return err
	}

	chain := result.ChainType
	major := result.Balance.FormatUnits(chain)
	if chain == entity.ChainEthereum {
		major = result.Balance.FormatEther(6)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Balance Query Result:")
	fmt.Fprintf(out, "Address: %s\n", result.Address)
	fmt.Fprintf(out, "Network: %s\n", result.Network)
	fmt.Fprintf(out, "Balance: %s %s\n", major, chain.NativeCurrency())
	fmt.Fprintf(out, "%s: %s %s\n", chain.SmallestUnit(), result.Balance.Wei(), chain.SmallestUnit())
	return nil
}
