package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cardctl",
		Short: "Administer card sets, tokens and provider policies",
		Long: `cardctl is the operator tool for a CardConjurer server.
It imports saved-card exports into a set, mints bearer tokens for
identity-provider uids and checks provider policy files.`,
		SilenceUsage: true,
	}
	root.AddCommand(newImportCmd(), newTokenCmd(), newAuthorizeCmd())
	return root
}
