// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"os"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Identity provider token helpers",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Get an identity provider management token with the client credentials flow",
	Long:  `Get an identity provider management token, flags default to the IDP_* environment variables`,
	RunE:  runTokenIssue,
}

var tokenInspectCmd = &cobra.Command{
	Use:   "inspect <token>",
	Short: "Verify a session token with the configured authenticator and print its caller",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenInspect,
}

func init() {
	tokenIssueCmd.Flags().String("client-id", os.Getenv("IDP_CLIENT_ID"), "Client ID")
	tokenIssueCmd.Flags().String("client-secret", os.Getenv("IDP_CLIENT_SECRET"), "Client Secret")
	tokenIssueCmd.Flags().String("token-url", os.Getenv("IDP_TOKEN_URL"), "Token URL")
	tokenIssueCmd.Flags().String("issuer-url", os.Getenv("OIDC_ISSUER"), "Issuer URL (for OIDC discovery)")
	tokenIssueCmd.Flags().StringSlice("scopes", []string{}, "Scopes (comma-separated)")

	tokenInspectCmd.Flags().StringP("format", "f", "text", "Output format (text or json)")

	tokenCmd.AddCommand(tokenIssueCmd)
	tokenCmd.AddCommand(tokenInspectCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runTokenIssue(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	clientID, _ := cmd.Flags().GetString("client-id")
	clientSecret, _ := cmd.Flags().GetString("client-secret")
	tokenURL, _ := cmd.Flags().GetString("token-url")
	issuerURL, _ := cmd.Flags().GetString("issuer-url")
	scopes, _ := cmd.Flags().GetStringSlice("scopes")

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("client id and client secret are required")
	}

	if tokenURL == "" {
		if issuerURL == "" {
			return fmt.Errorf("either --token-url or --issuer-url must be provided")
		}

		provider, err := oidc.NewProvider(ctx, issuerURL)
		if err != nil {
			return fmt.Errorf("failed to discover token endpoint: %v", err)
		}
		tokenURL = provider.Endpoint().TokenURL
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get token: %v", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
	return err
}

func runTokenInspect(cmd *cobra.Command, args []string) error {
	specs, err := loadSpecs()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	verifier, err := newAuthenticator(specs, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("team-planner", logger), logger)
	if err != nil {
		return err
	}

	principal, err := verifier.VerifyToken(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("token rejected: %v", err)
	}

	format, _ := cmd.Flags().GetString("format")

	return printResult(
		cmd.OutOrStdout(),
		format,
		map[string]string{
			"user_id":    principal.UserID,
			"first_name": principal.FirstName,
			"last_name":  principal.LastName,
			"email":      principal.Email,
		},
		fmt.Sprintf("%s %s %s <%s>\n", principal.UserID, principal.FirstName, principal.LastName, principal.Email),
	)
}
