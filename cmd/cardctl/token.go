package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cardconjurer/internal/auth"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		provider string
		uid      string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a provider uid",
		Long: `Token signs an HS256 bearer token with JWT_SECRET for the given
identity-provider uid. The server still applies the provider policy when
the token is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := auth.GenerateToken(secret, provider, uid, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "discord", "identity provider name")
	cmd.Flags().StringVar(&uid, "uid", "", "uid issued by the provider")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}
