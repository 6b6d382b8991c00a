// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/canonical/team-planner/migrations"
)

// migrateCmd applies the embedded schema migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Run database migrations, the DSN defaults to the DSN environment variable`,
	RunE: withMigrator(func(ctx context.Context, m *migrator, args []string) error {
		return m.up(ctx)
	}),
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(ctx context.Context, m *migrator, args []string) error {
		return m.up(ctx)
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [version]",
	Short: "Roll back the last migration, or down to version",
	Args:  cobra.MaximumNArgs(1),
	RunE: withMigrator(func(ctx context.Context, m *migrator, args []string) error {
		if len(args) == 0 {
			return m.down(ctx, -1)
		}

		version, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || version < 0 {
			return fmt.Errorf("invalid version number: %q", args[0])
		}

		return m.down(ctx, version)
	}),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations are applied",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(ctx context.Context, m *migrator, args []string) error {
		return m.status(ctx)
	}),
}

var migrateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Fail when migrations are pending",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(ctx context.Context, m *migrator, args []string) error {
		return m.check(ctx)
	}),
}

func init() {
	migrateCmd.PersistentFlags().String("dsn", os.Getenv("DSN"), "PostgreSQL DSN connection string")
	migrateCmd.PersistentFlags().StringP("format", "f", "text", "Output format (text or json)")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd, migrateCheckCmd)
	rootCmd.AddCommand(migrateCmd)
}

type migrator struct {
	provider *goose.Provider
	db       *sql.DB

	cmd    *cobra.Command
	format string
}

func withMigrator(fn func(context.Context, *migrator, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dsn, _ := cmd.Flags().GetString("dsn")
		format, _ := cmd.Flags().GetString("format")

		if dsn == "" {
			return fmt.Errorf("a DSN is required, pass --dsn or set DSN")
		}

		m, err := newMigrator(cmd, dsn, format)
		if err != nil {
			return err
		}
		defer m.db.Close()

		return fn(cmd.Context(), m, args)
	}
}

func newMigrator(cmd *cobra.Command, dsn, format string) (*migrator, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("DSN validation failed: %v", err)
	}

	db := stdlib.OpenDB(*config)

	if err := db.PingContext(cmd.Context()); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB connection failed: %v", err)
	}

	var opts []goose.ProviderOption
	if format == "json" {
		opts = append(opts, goose.WithLogger(goose.NopLogger()))
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.EmbedMigrations, opts...)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}

	m := new(migrator)
	m.provider = provider
	m.db = db
	m.cmd = cmd
	m.format = format

	return m, nil
}

func (m *migrator) up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return err
	}

	return m.report(results)
}

func (m *migrator) down(ctx context.Context, version int64) error {
	var results []*goose.MigrationResult

	if version < 0 {
		result, err := m.provider.Down(ctx)
		if err != nil {
			return err
		}
		results = append(results, result)
	} else {
		var err error
		if results, err = m.provider.DownTo(ctx, version); err != nil {
			return err
		}
	}

	return m.report(results)
}

func (m *migrator) report(results []*goose.MigrationResult) error {
	if results == nil {
		results = []*goose.MigrationResult{}
	}

	if m.format == "json" {
		return printResult(m.cmd.OutOrStdout(), m.format, map[string]interface{}{"applied": results}, "")
	}

	for _, r := range results {
		m.cmd.Printf("%s %s (%s)\n", r.Direction, r.Source.Path, r.Duration)
	}

	return nil
}

func (m *migrator) status(ctx context.Context) error {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return err
	}

	if m.format == "json" {
		return printResult(m.cmd.OutOrStdout(), m.format, statuses, "")
	}

	w := tabwriter.NewWriter(m.cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "APPLIED AT\tMIGRATION")
	for _, s := range statuses {
		appliedAt := "Pending"
		if s.State == goose.StateApplied {
			appliedAt = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\n", appliedAt, s.Source.Path)
	}

	return w.Flush()
}

func (m *migrator) check(ctx context.Context) error {
	pending, err := m.provider.HasPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to check pending migrations: %w", err)
	}

	current, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	state := "ok"
	if pending {
		state = "pending"
	}

	if err := printResult(
		m.cmd.OutOrStdout(),
		m.format,
		map[string]interface{}{"status": state, "version": current},
		fmt.Sprintf("database version %d, status %s\n", current, state),
	); err != nil {
		return err
	}

	if pending {
		return fmt.Errorf("migrations are pending: current version %d", current)
	}

	return nil
}
