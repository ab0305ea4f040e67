package restapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler handles portfolio requests.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	registry         port.NetworkRegistry
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(ps port.PortfolioService, registry port.NetworkRegistry) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: ps, registry: registry}
}

// FetchPortfolios handles POST /api/v1/portfolios. Without wallets in the body
// the tracked wallet file is used.
func (h *PortfolioHandler) FetchPortfolios(c *gin.Context) {
	var req PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err))
		return
	}

	var (
		portfolios    []entity.WalletPortfolio
		serviceErrors []entity.PortfolioError
	)
	if len(req.Wallets) == 0 {
		portfolios, serviceErrors = h.portfolioService.FetchAllWalletsPortfolio(c.Request.Context())
	} else {
		wallets, err := h.wallets(req.Wallets)
		if err != nil {
			abortWithError(c, err)
			return
		}
		portfolios, serviceErrors = h.portfolioService.FetchPortfolios(c.Request.Context(), wallets)
	}

	c.JSON(http.StatusOK, newPortfolioResponse(portfolios, serviceErrors))
}

// GetFailedWallets handles GET /api/v1/portfolios/failed.
func (h *PortfolioHandler) GetFailedWallets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"failedWallets": h.portfolioService.GetFailedWallets()})
}

func (h *PortfolioHandler) wallets(entries []PortfolioWallet) ([]entity.Wallet, error) {
	wallets := make([]entity.Wallet, 0, len(entries))
	for i, e := range entries {
		network, ok := h.registry.Lookup(e.Network)
		if !ok {
			return nil, fmt.Errorf("%w: wallets[%d]: unknown network %q", domain.ErrValidation, i, e.Network)
		}
		address, err := addressFor(e.Address, network)
		if err != nil {
			return nil, fmt.Errorf("wallets[%d]: %w", i, err)
		}
		wallets = append(wallets, entity.Wallet{Network: network, Address: address, Label: e.Label})
	}
	return wallets, nil
}

func newPortfolioResponse(portfolios []entity.WalletPortfolio, serviceErrors []entity.PortfolioError) APIPortfolioResponse {
	response := APIPortfolioResponse{ServiceErrors: serviceErrors}
	response.Data.Portfolios = portfolios
	if response.Data.Portfolios == nil {
		response.Data.Portfolios = []entity.WalletPortfolio{}
	}

	switch {
	case len(serviceErrors) > 0 && len(portfolios) == 0:
		response.StatusMessage = "Failed to retrieve any portfolios due to service errors."
	case len(serviceErrors) > 0:
		response.StatusMessage = "Portfolios retrieved. Some wallets may have encountered errors."
	case len(portfolios) == 0:
		response.StatusMessage = "No portfolio data found. Check the wallet list."
	default:
		response.StatusMessage = "Portfolios retrieved successfully."
	}
	return response
}
