package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"multichain_wallet/internal/app/service"
	"multichain_wallet/internal/infrastructure/restapi"
	"multichain_wallet/internal/infrastructure/walletloader"
	"multichain_wallet/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(g *globalOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := newDependencies(g.cfg)
			if port != "" {
				deps.cfg.Server.Port = port
			}
			if !g.isDebug {
				gin.SetMode(gin.ReleaseMode)
			}
			return runServer(cmd.Context(), deps)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default is server.port from the config)")
	return cmd
}

func newHTTPServer(deps *dependencies) *http.Server {
	cfg := deps.cfg

	facades := service.NewFacadePool(deps.factory, deps.logger)
	wallets := walletloader.NewWalletFileLoader(cfg.Portfolio.WalletsFile, deps.registry, deps.logger.Info)
	portfolioService := service.NewPortfolioService(wallets, facades, deps.logger, cfg.Portfolio.MaxConcurrentRequests)

	router := restapi.SetupRouter(
		restapi.NewWalletHandler(deps.registry, facades, deps.logger),
		restapi.NewPortfolioHandler(portfolioService, deps.registry),
		deps.logger,
		restapi.RouterOptions{SwaggerEnabled: cfg.Swagger.Enabled, SwaggerPath: cfg.Swagger.Path},
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, deps *dependencies) error {
	srv := newHTTPServer(deps)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
