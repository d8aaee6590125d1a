// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"sqlblock/cli/internal/dsn"
	"sqlblock/cli/internal/keychain"
	"sqlblock/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// dbinfoCmd shows a stored connection with the password masked.
var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo NAME",
	Short: "Show a saved connection",
	Long: `The dbinfo command displays the database stored under NAME with the password
masked, to check which database :db @NAME points at without exposing credentials.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimPrefix(args[0], "@")
		km, err := keychain.GetManager()
		if err != nil {
			pterm.Println("❌ Secure storage is not available on this system")
			return err
		}

		value, err := km.LoadAlias(name)
		if errors.Is(err, keychain.ErrNotFound) {
			pterm.Printfln("⚠️  No connection named @%s", name)
			pterm.Println("   Please run: sqlblock connect " + name)
			return nil
		}
		if err != nil {
			return err
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Connection @"+name)).
			WithPadding(1).
			Println(describe(value))
		pterm.Println()
		pterm.Println("To update this connection, run: sqlblock connect " + name)
		pterm.Println()
		return nil
	},
}

// describe renders a stored value with its engine and parsed parts, password masked.
func describe(value string) string {
	engine := dsn.Detect(value)
	lines := []string{
		fmt.Sprintf("engine:   %s", engine),
		fmt.Sprintf("value:    %s", logging.Mask(value)),
	}
	info, err := dsn.ParseInfo(engine, value)
	if err != nil {
		return strings.Join(lines, "\n")
	}
	if engine == dsn.EnginePostgreSQL {
		host := info.Host
		if host == "" {
			host = "(local socket)"
		}
		if info.Port != "" {
			host += ":" + info.Port
		}
		lines = append(lines,
			fmt.Sprintf("host:     %s", host),
			fmt.Sprintf("user:     %s", info.User),
			fmt.Sprintf("database: %s", info.Database),
		)
	} else {
		lines = append(lines, fmt.Sprintf("path:     %s", info.Path))
	}
	return strings.Join(lines, "\n")
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
}
