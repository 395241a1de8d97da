package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"skill-gap/internal/pkg/jwt"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API access token",
	Long:  "Token signs an access token for the given user with JWT_ACCESS_SECRET, for calling a server that has auth enabled.",
	RunE:  runToken,
}

var (
	tokenUser string
	tokenTTL  time.Duration
)

func init() {
	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "User ID to put in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default JWT_ACCESS_TTL)")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadTooling(cmd)
	if err != nil {
		return err
	}
	if cfg.JWT.AccessSecret == "" {
		return errors.New("JWT_ACCESS_SECRET is not set")
	}

	ttl := cfg.JWT.AccessTTL
	if tokenTTL > 0 {
		ttl = tokenTTL
	}

	tok, err := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.Issuer, ttl).GenerateAccessToken(tokenUser)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
