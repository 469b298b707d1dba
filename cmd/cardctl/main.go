// Command cardctl runs administrative tasks against a CardConjurer server
// database: bulk card imports, token minting and policy checks.
package main

import (
	"os"

	"cardconjurer/internal/config"
)

func main() {
	config.LoadEnvFiles()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
