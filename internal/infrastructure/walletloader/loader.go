package walletloader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"multichain_wallet/internal/app/port"
	"multichain_wallet/internal/domain/entity"
)

// DefaultWalletFilePath is used when no path is configured.
const DefaultWalletFilePath = "data/wallets.txt"

// WalletFileLoader implements port.WalletProvider by reading lines of the form
//
//	<network> <address> [label]
//
// Blank lines and lines starting with '#' are ignored.
type WalletFileLoader struct {
	filePath   string
	networks   port.NetworkRegistry
	loggerInfo func(msg string, args ...any)
}

var _ port.WalletProvider = (*WalletFileLoader)(nil)

// NewWalletFileLoader creates a new WalletFileLoader. An empty path means DefaultWalletFilePath.
func NewWalletFileLoader(filePath string, networks port.NetworkRegistry, loggerInfo func(msg string, args ...any)) *WalletFileLoader {
	if filePath == "" {
		filePath = DefaultWalletFilePath
	}
	return &WalletFileLoader{
		filePath:   filePath,
		networks:   networks,
		loggerInfo: loggerInfo,
	}
}

// GetWallets reads wallets from the configured file path. Malformed lines are
// logged and skipped.
func (l *WalletFileLoader) GetWallets() ([]entity.Wallet, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", l.filePath, err)
	}
	defer file.Close()

	wallets, err := l.parse(file)
	if err != nil {
		return nil, fmt.Errorf("error scanning wallet file %s: %w", l.filePath, err)
	}

	l.log("Wallets loaded successfully from file", "count", len(wallets), "path", l.filePath)
	return wallets, nil
}

func (l *WalletFileLoader) parse(r io.Reader) ([]entity.Wallet, error) {
	var wallets []entity.Wallet
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			l.log("Skipping wallet line without network and address", "file", l.filePath, "line_number", lineNum)
			continue
		}

		network, ok := l.networks.Lookup(fields[0])
		if !ok {
			l.log("Skipping wallet with unknown network", "file", l.filePath, "line_number", lineNum, "network", fields[0])
			continue
		}

		address, err := entity.NewAddress(fields[1])
		if err != nil || !address.IsValidFor(network.ChainType()) {
			l.log("Skipping invalid wallet address format", "file", l.filePath, "line_number", lineNum, "address", fields[1], "network", network.Identifier())
			continue
		}

		wallets = append(wallets, entity.Wallet{
			Network: network,
			Address: address,
			Label:   strings.Join(fields[2:], " "),
		})
	}
	return wallets, scanner.Err()
}

// GetWalletsByAddress returns every tracked entry for address, compared case-insensitively.
func (l *WalletFileLoader) GetWalletsByAddress(address string) ([]entity.Wallet, error) {
	wallets, err := l.GetWallets()
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets when searching by address '%s': %w", address, err)
	}

	var found []entity.Wallet
	for _, wallet := range wallets {
		if strings.EqualFold(wallet.Address.String(), address) {
			found = append(found, wallet)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("wallet with address %s not found in %s", address, l.filePath)
	}
	return found, nil
}

func (l *WalletFileLoader) log(msg string, args ...any) {
	if l.loggerInfo != nil {
		l.loggerInfo(msg, args...)
	}
}
