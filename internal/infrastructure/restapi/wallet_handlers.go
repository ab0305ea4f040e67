package restapi

import (
	"fmt"
	"math/big"
	"net/http"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/app/service"
	"multichain_wallet/internal/domain"
	"multichain_wallet/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// WalletHandler serves network, balance and transfer requests through pinned facades.
type WalletHandler struct {
	registry port.NetworkRegistry
	facades  *service.FacadePool
	logger   port.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(registry port.NetworkRegistry, facades *service.FacadePool, l port.Logger) *WalletHandler {
	return &WalletHandler{registry: registry, facades: facades, logger: l.With("component", "WalletHandler")}
}

func (h *WalletHandler) network(c *gin.Context) (entity.Network, error) {
	id := c.Param("network")
	n, ok := h.registry.Lookup(id)
	if !ok {
		return entity.Network{}, fmt.Errorf("%w: unknown network %q", domain.ErrValidation, id)
	}
	return n, nil
}

func addressFor(raw string, network entity.Network) (entity.Address, error) {
	address, err := entity.NewAddress(raw)
	if err != nil {
		return entity.Address{}, err
	}
	if !address.IsValidFor(network.ChainType()) {
		return entity.Address{}, fmt.Errorf("%w: %s is not a %s address", domain.ErrInvalidAddressFormat, raw, network.ChainType().Name())
	}
	return address, nil
}

// ListNetworks handles GET /api/v1/networks.
func (h *WalletHandler) ListNetworks(c *gin.Context) {
	networks := h.registry.Networks()
	resp := make([]NetworkResponse, 0, len(networks))
	for _, n := range networks {
		resp = append(resp, NetworkResponse{
			Identifier: n.Identifier(),
			Name:       n.Name(),
			ChainType:  n.ChainType(),
			ChainID:    n.ChainID(),
			Currency:   n.ChainType().NativeCurrency(),
			Testnet:    n.IsTestnet(),
			Custom:     n.IsCustom(),
			RPCURL:     h.registry.RPCURL(n),
		})
	}
	c.JSON(http.StatusOK, gin.H{"networks": resp})
}

// GetStatus handles GET /api/v1/networks/:network/status.
func (h *WalletHandler) GetStatus(c *gin.Context) {
	network, err := h.network(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	facade, err := h.facades.For(c.Request.Context(), network)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := StatusResponse{Network: network.Identifier()}
	resp.Connected = facade.IsConnected(c.Request.Context())
	if resp.Connected {
		if n, err := facade.GetBlockNumber(c.Request.Context()); err == nil {
			resp.BlockNumber = &n
		} else {
			resp.Error = err.Error()
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetBalance handles GET /api/v1/networks/:network/balances/:address.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	network, err := h.network(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	address, err := addressFor(c.Param("address"), network)
	if err != nil {
		abortWithError(c, err)
		return
	}
	facade, err := h.facades.For(c.Request.Context(), network)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result, err := service.NewGetBalanceHandler(facade, h.logger).Handle(c.Request.Context(), entity.NewGetBalanceQuery(address, network))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBalanceResponse(result))
}

// Transfer handles POST /api/v1/networks/:network/transfers.
func (h *WalletHandler) Transfer(c *gin.Context) {
	network, err := h.network(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err))
		return
	}

	cmd, err := h.transferCommand(req, network)
	if err != nil {
		abortWithError(c, err)
		return
	}
	facade, err := h.facades.For(c.Request.Context(), network)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result, err := service.NewTransferHandler(facade, h.logger).Handle(c.Request.Context(), cmd)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransferResponse(result))
}

func (h *WalletHandler) transferCommand(req TransferRequest, network entity.Network) (entity.TransferCommand, error) {
	from, err := addressFor(req.From, network)
	if err != nil {
		return entity.TransferCommand{}, err
	}
	to, err := addressFor(req.To, network)
	if err != nil {
		return entity.TransferCommand{}, err
	}

	var amount entity.Amount
	switch {
	case req.Amount != "" && req.AmountMinor != "":
		return entity.TransferCommand{}, fmt.Errorf("%w: set either amount or amountMinor, not both", domain.ErrInvalidAmount)
	case req.Amount != "":
		amount, err = entity.ParseAmount(req.Amount, network.ChainType())
	case req.AmountMinor != "":
		amount, err = parseMinor(req.AmountMinor)
	default:
		err = fmt.Errorf("%w: amount is required", domain.ErrInvalidAmount)
	}
	if err != nil {
		return entity.TransferCommand{}, err
	}

	cmd, err := entity.NewTransferCommand(from, to, amount, network, req.PrivateKey)
	if err != nil {
		return entity.TransferCommand{}, err
	}
	if req.GasPriceWei != "" {
		gasPrice, ok := new(big.Int).SetString(req.GasPriceWei, 10)
		if !ok || gasPrice.Sign() <= 0 {
			return entity.TransferCommand{}, fmt.Errorf("%w: invalid gasPriceWei %q", domain.ErrValidation, req.GasPriceWei)
		}
		cmd = cmd.WithGasPrice(gasPrice)
	}
	return cmd, nil
}

func parseMinor(raw string) (entity.Amount, error) {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return entity.Amount{}, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidAmount, raw)
	}
	return entity.AmountFromWei(v)
}
