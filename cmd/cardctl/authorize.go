package main

import (
	"fmt"
	"os"

	"cardconjurer/internal/auth"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newAuthorizeCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "authorize <provider> <uid>",
		Short: "Show the role a provider policy file grants a uid",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			policies, err := auth.LoadPolicies(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			role, err := policies.Authorize(args[0], args[1])
			if err != nil {
				color.New(color.FgRed).Fprintf(out, "%s/%s: forbidden\n", args[0], args[1])
				return err
			}
			fmt.Fprintf(out, "%s/%s: ", args[0], args[1])
			color.New(color.FgGreen, color.Bold).Fprintln(out, role)
			return nil
		},
	}
	def := os.Getenv("PROVIDERS_FILE")
	if def == "" {
		def = "providers.toml"
	}
	cmd.Flags().StringVar(&file, "file", def, "provider policy file")
	return cmd
}
