package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/branch-pulse/internal/cli"
	"github.com/branch-pulse/internal/config"
	"github.com/branch-pulse/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}
	cmd.AddCommand(authSheetsCmd())
	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Runs the OAuth2 flow for Google Sheets access:
1. Starts a local callback server
2. Opens the Google consent page in your browser
3. Saves the resulting token for future runs

Service-account setups do not need this; point
sheets.service_account_path at the key file instead.`,
		RunE: runAuthSheets,
	}
	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("sheets.client_id and sheets.client_secret must be configured first")
	}

	tokenFile := viper.GetString("sheets.token_file")
	if tokenFile == "" {
		tokenFile = config.TokenPath()
	}
	tokenFile = config.ExpandPath(tokenFile)

	token, err := sheets.GetOrCreateToken(cmd.Context(), sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Google Sheets authentication complete"))
	fmt.Println(cli.FormatInfo(fmt.Sprintf("Token saved to %s", tokenFile)))
	if token.RefreshToken != "" {
		fmt.Println(cli.FormatInfo("Set sheets.refresh_token in your config to use this credential:"))
		fmt.Println(cli.SubtleStyle.Render("  refresh_token: " + token.RefreshToken))
	}
	return nil
}
