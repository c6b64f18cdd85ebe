package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"civicbudget/internal/middleware"
	"civicbudget/internal/services"
)

var (
	flagTokenUser uint
	flagTokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for an existing user",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().UintVarP(&flagTokenUser, "user", "u", 0, "User id")
	tokenCmd.Flags().DurationVar(&flagTokenTTL, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRATION)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	if flagTokenUser == 0 {
		return errors.New("--user is required")
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	user, err := services.NewUserService(env.db).GetUserByID(flagTokenUser)
	if err != nil {
		return err
	}

	ttl := flagTokenTTL
	if ttl <= 0 {
		ttl = env.cfg.JWTExpirationDur
	}
	token, err := middleware.GenerateAccessToken(env.cfg.JWTSecret, user.ID, ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
