// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/canonical/team-planner/internal/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Get the application's version",
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		info := map[string]string{"version": version.Version}
		if bi, ok := debug.ReadBuildInfo(); ok {
			info["go"] = bi.GoVersion
		}

		_ = printResult(cmd.OutOrStdout(), format, info, "App Version: "+version.Version+"\n")
	},
}

func init() {
	versionCmd.Flags().StringP("format", "f", "text", "Output format (text or json)")
	rootCmd.AddCommand(versionCmd)
}
