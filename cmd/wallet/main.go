package main

import "multichain_wallet/internal/cli"

func main() {
	cli.Execute()
}
