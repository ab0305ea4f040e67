package cli

import (
	"fmt"
	"os"

	"multichain_wallet/internal/app/service"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"
	"multichain_wallet/internal/infrastructure/configloader"
	"multichain_wallet/internal/pkg/utils"

	"github.com/spf13/cobra"
)

// gweiDecimals is the exponent between Gwei and Wei.
const gweiDecimals = 9

type transferOptions struct {
	from       string
	to         string
	amount     string
	network    string
	privateKey string
	gasPrice   string
}

func newTransferCmd(g *globalOptions) *cobra.Command {
	opts := &transferOptions{}

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send a native transfer",
		Example: `  WALLET_PRIVATE_KEY=... wallet transfer --from 0xabc... --to 0xdef... --amount 0.01 -n sepolia
  wallet transfer --from 0xabc... --to 0xdef... --amount 0.5 --gas-price 2.5 --private-key ...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd, newDependencies(g.cfg), opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "sender address")
	cmd.Flags().StringVar(&opts.to, "to", "", "recipient address")
	cmd.Flags().StringVar(&opts.amount, "amount", "", "amount in the native currency (e.g. 0.01)")
	cmd.Flags().StringVarP(&opts.network, "network", "n", "sepolia", "network identifier")
	cmd.Flags().StringVar(&opts.privateKey, "private-key", "", "hex private key (default $"+configloader.EnvPrivateKey+")")
	cmd.Flags().StringVar(&opts.gasPrice, "gas-price", "", "gas price in Gwei, EVM only (default: node suggestion)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runTransfer(cmd *cobra.Command, deps *dependencies, opts *transferOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	network, err := deps.network(opts.network)
	if err != nil {
		return err
	}
	from, err := parseAddress(opts.from, network)
	if err != nil {
		return err
	}
	to, err := parseAddress(opts.to, network)
	if err != nil {
		return err
	}
	amount, err := entity.ParseAmount(opts.amount, network.ChainType())
	if err != nil {
		return err
	}

	privateKey := opts.privateKey
	if privateKey == "" {
		privateKey = os.Getenv(configloader.EnvPrivateKey)
	}
	if privateKey == "" {
		return fmt.Errorf("%w: pass --private-key or set %s", domain.ErrInvalidPrivateKey, configloader.EnvPrivateKey)
	}

	command, err := entity.NewTransferCommand(from, to, amount, network, privateKey)
	if err != nil {
		return err
	}
	if opts.gasPrice != "" {
		gasPrice, err := utils.ParseUnits(opts.gasPrice, gweiDecimals)
		if err != nil {
			return fmt.Errorf("%w: --gas-price: %v", domain.ErrValidation, err)
		}
		command = command.WithGasPrice(gasPrice)
	}

	facade, err := deps.facadeFor(ctx, network)
	if err != nil {
		return err
	}
	result, err := service.NewTransferHandler(facade, deps.logger).Handle(ctx, command)
	if err != nil {
		return err
	}

	chain := network.ChainType()
	fmt.Fprintln(out, "Transaction sent!")
	fmt.Fprintf(out, "Tx Hash: %s\n", result.TxHash)
	fmt.Fprintf(out, "From: %s\n", result.FromAddress)
	fmt.Fprintf(out, "To: %s\n", result.ToAddress)
	fmt.Fprintf(out, "Amount: %s %s\n", result.Amount.FormatUnits(chain), chain.NativeCurrency())
	fmt.Fprintf(out, "Network: %s\n", result.Network)
	if command.GasPrice != nil {
		fmt.Fprintf(out, "Gas Price: %s Gwei\n", utils.FormatBigInt(command.GasPrice, gweiDecimals))
	}
	return nil
}
