package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/getyourdepa/depa-cms/internal/config"
	"github.com/getyourdepa/depa-cms/pkg/identity"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin bearer token (hmac provider only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Auth.Provider != config.AuthHMAC {
			return errors.New("tokens can only be issued with auth.provider=hmac")
		}
		token, err := identity.NewHMACVerifier(cfg.Auth.HMACSecret, cfg.Auth.HMACIssuer).
			Issue(cfg.Auth.AdminUID, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "token lifetime")
}
