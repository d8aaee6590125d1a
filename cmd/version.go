// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os/exec"

	"sqlblock/cli/internal/dsn"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the CLI version and the database shells it would run",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sqlblock %s\n", Version)
		for _, engine := range dsn.Engines {
			program := appConfig.Programs.For(engine)
			path, err := exec.LookPath(program)
			if err != nil {
				fmt.Fprintf(out, "%-10s %s %s\n", engine, program, pterm.Yellow("(not found)"))
				continue
			}
			fmt.Fprintf(out, "%-10s %s\n", engine, path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
