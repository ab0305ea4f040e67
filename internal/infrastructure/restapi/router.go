package restapi

import (
	"net/http"

	"multichain_wallet/internal/app/port"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterOptions toggles the optional routes.
type RouterOptions struct {
	SwaggerEnabled bool
	SwaggerPath    string // served at /docs/swagger.yaml
}

// SetupRouter wires middleware and routes.
func SetupRouter(wallets *WalletHandler, portfolios *PortfolioHandler, log port.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(log), cors.Default())

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/networks", wallets.ListNetworks)
		v1.GET("/networks/:network/status", wallets.GetStatus)
		v1.GET("/networks/:network/balances/:address", wallets.GetBalance)
		v1.POST("/networks/:network/transfers", wallets.Transfer)

		v1.POST("/portfolios", portfolios.FetchPortfolios)
		v1.GET("/portfolios/failed", portfolios.GetFailedWallets)
	}

	if opts.SwaggerEnabled && opts.SwaggerPath != "" {
		router.StaticFile("/docs/swagger.yaml", opts.SwaggerPath)
		swaggerURL := ginSwagger.URL("/docs/swagger.yaml")
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
	}

	return router
}
