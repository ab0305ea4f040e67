package entity

// PortfolioError records a failed balance lookup without failing the whole batch.
type PortfolioError struct {
	WalletAddress string    `json:"walletAddress"`
	NetworkName   string    `json:"networkName"`
	ChainType     ChainType `json:"chainType"`
	Kind          string    `json:"kind"`
	Message       string    `json:"message"`
}
