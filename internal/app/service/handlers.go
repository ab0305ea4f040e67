package service

import (
	"context"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain/entity"
)

// singleBackend serves every network from one directly injected backend.
type singleBackend struct {
	backend port.ChainBackend
}

func (r singleBackend) Resolve(entity.Network) (port.ChainBackend, error) {
	return r.backend, nil
}

// GetBalanceHandler answers GetBalanceQuery. Backend errors are returned unchanged.
type GetBalanceHandler struct {
	resolver port.BackendResolver
	logger   port.Logger
}

// NewGetBalanceHandler resolves the backend per query, typically through a MultiChainService.
func NewGetBalanceHandler(resolver port.BackendResolver, logger port.Logger) *GetBalanceHandler {
	return &GetBalanceHandler{resolver: resolver, logger: logger.With("handler", "GetBalance")}
}

// NewGetBalanceHandlerForBackend sends every query to backend.
func NewGetBalanceHandlerForBackend(backend port.ChainBackend, logger port.Logger) *GetBalanceHandler {
	return NewGetBalanceHandler(singleBackend{backend: backend}, logger)
}

func (h *GetBalanceHandler) Handle(ctx context.Context, query entity.GetBalanceQuery) (entity.BalanceQueryResult, error) {
	h.logger.Info("Getting balance",
		"chain", query.ChainType.Name(),
		"address", query.Address.String(),
		"network", query.Network.Name(),
	)
	h.logger.Debug("Chain metadata",
		"currency", query.ChainType.NativeCurrency(),
		"unit", query.ChainType.SmallestUnit(),
		"decimals", query.ChainType.Decimals(),
	)

	backend, err := h.resolver.Resolve(query.Network)
	if err != nil {
		return entity.BalanceQueryResult{}, err
	}

	balance, err := backend.GetBalance(ctx, query.Address)
	if err != nil {
		return entity.BalanceQueryResult{}, err
	}

	h.logger.Info("Balance retrieved",
		"chain", query.ChainType.Name(),
		"address", query.Address.String(),
		"balance", balance.FormatUnits(query.ChainType),
		"currency", query.ChainType.NativeCurrency(),
	)

	return entity.NewBalanceQueryResultWithChainType(query.Address, query.Network, query.ChainType, balance), nil
}

// TransferHandler executes TransferCommand. Backend errors are returned unchanged.
type TransferHandler struct {
	resolver port.BackendResolver
	logger   port.Logger
}

func NewTransferHandler(resolver port.BackendResolver, logger port.Logger) *TransferHandler {
	return &TransferHandler{resolver: resolver, logger: logger.With("handler", "Transfer")}
}

func NewTransferHandlerForBackend(backend port.ChainBackend, logger port.Logger) *TransferHandler {
	return NewTransferHandler(singleBackend{backend: backend}, logger)
}

func (h *TransferHandler) Handle(ctx context.Context, cmd entity.TransferCommand) (entity.TransferResult, error) {
	h.logger.Info("Executing transfer",
		"from", cmd.FromAddress.String(),
		"to", cmd.ToAddress.String(),
		"amount", cmd.Amount.Wei().String(),
		"network", cmd.Network.Name(),
	)

	backend, err := h.resolver.Resolve(cmd.Network)
	if err != nil {
		return entity.TransferResult{}, err
	}

	var opts []entity.TransferOption
	if cmd.GasPrice != nil {
		opts = append(opts, entity.WithGasPrice(cmd.GasPrice))
	}

	txHash, err := backend.Transfer(ctx, cmd.FromAddress, cmd.ToAddress, cmd.Amount, cmd.PrivateKey, opts...)
	if err != nil {
		return entity.TransferResult{}, err
	}

	h.logger.Info("Transfer broadcast", "tx_hash", txHash.String(), "network", cmd.Network.Name())

	return entity.TransferResult{
		TxHash:      txHash,
		FromAddress: cmd.FromAddress,
		ToAddress:   cmd.ToAddress,
		Amount:      cmd.Amount,
		Network:     cmd.Network,
	}, nil
}
