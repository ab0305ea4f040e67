package restapi

import (
	"multichain_wallet/internal/domain/entity"
)

// NetworkResponse describes one network the API can route to.
type NetworkResponse struct {
	Identifier string           `json:"identifier"`
	Name       string           `json:"name"`
	ChainType  entity.ChainType `json:"chainType"`
	ChainID    uint64           `json:"chainId,omitempty"`
	Currency   string           `json:"currency"`
	Testnet    bool             `json:"testnet"`
	Custom     bool             `json:"custom,omitempty"`
	RPCURL     string           `json:"rpcUrl"`
}

// StatusResponse reports the liveness of a network backend.
type StatusResponse struct {
	Network     string  `json:"network"`
	Connected   bool    `json:"connected"`
	BlockNumber *uint64 `json:"blockNumber,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// BalanceResponse carries a balance in major and minor units.
type BalanceResponse struct {
	Address      string           `json:"address"`
	Network      string           `json:"network"`
	NetworkName  string           `json:"networkName"`
	ChainType    entity.ChainType `json:"chainType"`
	Currency     string           `json:"currency"`
	Balance      string           `json:"balance"`
	BalanceMinor string           `json:"balanceMinor"`
	MinorUnit    string           `json:"minorUnit"`
}

func newBalanceResponse(r entity.BalanceQueryResult) BalanceResponse {
	return BalanceResponse{
		Address:      r.Address.String(),
		Network:      r.Network.Identifier(),
		NetworkName:  r.Network.Name(),
		ChainType:    r.ChainType,
		Currency:     r.ChainType.NativeCurrency(),
		Balance:      r.Balance.FormatUnits(r.ChainType),
		BalanceMinor: r.Balance.Wei().String(),
		MinorUnit:    r.ChainType.SmallestUnit(),
	}
}

// TransferRequest asks for a native transfer. Exactly one of Amount (major
// units, e.g. "0.25") and AmountMinor (e.g. Wei) must be set.
type TransferRequest struct {
	From        string `json:"from" binding:"required"`
	To          string `json:"to" binding:"required"`
	Amount      string `json:"amount"`
	AmountMinor string `json:"amountMinor"`
	PrivateKey  string `json:"privateKey" binding:"required"`
	GasPriceWei string `json:"gasPriceWei"`
}

// TransferResponse describes a broadcast transfer.
type TransferResponse struct {
	TxHash      string `json:"txHash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      string `json:"amount"`
	AmountMinor string `json:"amountMinor"`
	Network     string `json:"network"`
}

func newTransferResponse(r entity.TransferResult) TransferResponse {
	chainType := r.Network.ChainType()
	return TransferResponse{
		TxHash:      r.TxHash.String(),
		From:        r.FromAddress.String(),
		To:          r.ToAddress.String(),
		Amount:      r.Amount.FormatUnits(chainType),
		AmountMinor: r.Amount.Wei().String(),
		Network:     r.Network.Identifier(),
	}
}

// PortfolioWallet is one entry of a portfolio request.
type PortfolioWallet struct {
	Network string `json:"network" binding:"required"`
	Address string `json:"address" binding:"required"`
	Label   string `json:"label"`
}

// PortfolioRequest lists the wallets to query. An empty list means the tracked wallet file.
type PortfolioRequest struct {
	Wallets []PortfolioWallet `json:"wallets"`
}

// APIPortfolioResponse is the body of the portfolio endpoints.
type APIPortfolioResponse struct {
	Data struct {
		Portfolios []entity.WalletPortfolio `json:"portfolios"`
	} `json:"data"`
	ServiceErrors []entity.PortfolioError `json:"service_errors,omitempty"`
	StatusMessage string                  `json:"status_message"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"requestId,omitempty"`
}
