package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"multichain_wallet/internal/infrastructure/configloader"
	"multichain_wallet/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	cfgPath string
	isDebug bool
	cfg     *configloader.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "wallet",
		Short:         "Multi-chain wallet CLI",
		Long:          `wallet queries balances and sends native transfers on EVM networks, Bitcoin and Solana.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := configloader.Load(configloader.ResolvePath(opts.cfgPath))
			if err != nil {
				return err
			}
			level := cfg.Logging.Level
			if opts.isDebug {
				level = "debug"
			}
			logger.InitSlog(logger.Options{Level: level, Format: cfg.Logging.Format, Output: cmd.ErrOrStderr()})
			opts.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgPath, "config", "", "config file (default is $WALLET_CONFIG or "+configloader.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVar(&opts.isDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newBalanceCmd(opts),
		newTransferCmd(opts),
		newNetworksCmd(opts),
		newPortfolioCmd(opts),
		newServeCmd(opts),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on any error. SIGINT and SIGTERM
// cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("Command failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
