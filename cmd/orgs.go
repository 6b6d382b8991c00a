// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/pkg/rolesync"
)

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "Organization maintenance tasks",
	Long:  `Maintenance tasks run against the configured database and identity provider`,
}

var orgsCleanupCmd = &cobra.Command{
	Use:   "cleanup-duplicates <external-id>",
	Short: "Keep the oldest organization sharing an external id and delete the rest",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrgsCleanup,
}

var orgsReconcileCmd = &cobra.Command{
	Use:   "reconcile [external-id]",
	Short: "Reconcile memberships with the identity provider",
	Long:  `Reconcile the memberships of one organization, or of every organization when --all is set`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOrgsReconcile,
}

func init() {
	orgsReconcileCmd.Flags().Bool("all", false, "Reconcile every organization")
	orgsCmd.PersistentFlags().StringP("format", "f", "text", "Output format (text or json)")

	orgsCmd.AddCommand(orgsCleanupCmd)
	orgsCmd.AddCommand(orgsReconcileCmd)
	rootCmd.AddCommand(orgsCmd)
}

func newMaintenanceBackend() (*backend, logging.LoggerInterface, error) {
	specs, err := loadSpecs()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(specs.LogLevel)
	monitor := monitoring.NewNoopMonitor("team-planner", logger)
	tracer := tracing.NewNoopTracer()

	b, err := newBackend(specs, tracer, monitor, logger)
	if err != nil {
		return nil, nil, err
	}

	return b, logger, nil
}

func runOrgsCleanup(cmd *cobra.Command, args []string) error {
	b, logger, err := newMaintenanceBackend()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer b.Close()

	deleted, keptID, err := b.organizations.CleanupDuplicates(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")

	return printResult(cmd.OutOrStdout(), format, map[string]interface{}{
		"external_id": args[0],
		"kept":        keptID,
		"deleted":     deleted,
	}, fmt.Sprintf("kept %s, deleted %d duplicates\n", keptID, deleted))
}

func runOrgsReconcile(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if all == (len(args) == 1) {
		return fmt.Errorf("pass either an external id or --all")
	}

	b, logger, err := newMaintenanceBackend()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer b.Close()

	if all {
		return b.rolesync.ReconcileAll(cmd.Context())
	}

	result, err := b.rolesync.Reconcile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")

	return printResult(cmd.OutOrStdout(), format, result, reconcileSummary(result))
}

func reconcileSummary(r *rolesync.ReconcileResult) string {
	return fmt.Sprintf(
		"%s (%s): %d upserted, %d removed, %d skipped\n",
		r.OrganizationExternalID,
		r.OrganizationID,
		r.Upserted,
		r.Removed,
		r.Skipped,
	)
}

func printResult(out io.Writer, format string, v interface{}, text string) error {
	if format == "json" {
		return json.NewEncoder(out).Encode(v)
	}

	_, err := io.WriteString(out, text)
	return err
}
