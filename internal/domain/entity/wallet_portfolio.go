package entity

// Wallet is one line of a wallet list: an address tracked on a network.
type Wallet struct {
	Network Network
	Address Address
	Label   string
}

// NetworkBalance is the native balance of a wallet on one network.
type NetworkBalance struct {
	Network          Network   `json:"-"`
	NetworkName      string    `json:"networkName"`
	ChainType        ChainType `json:"chainType"`
	Currency         string    `json:"currency"`
	Balance          Balance   `json:"balance"`
	FormattedBalance string    `json:"formattedBalance"`
}

// NewNetworkBalance fills the display fields from a query result.
func NewNetworkBalance(result BalanceQueryResult) NetworkBalance {
	return NetworkBalance{
		Network:          result.Network,
		NetworkName:      result.Network.Name(),
		ChainType:        result.ChainType,
		Currency:         result.ChainType.NativeCurrency(),
		Balance:          result.Balance,
		FormattedBalance: result.Balance.FormatUnits(result.ChainType),
	}
}

// WalletPortfolio groups the balances of one address. Addresses tracked on
// several networks of different families get one portfolio each.
type WalletPortfolio struct {
	WalletAddress string           `json:"walletAddress"`
	Label         string           `json:"label,omitempty"`
	Balances      []NetworkBalance `json:"balances"`
	ErrorCount    int              `json:"errorCount"`
}
