// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for sqlblock.
// It implements subcommands that run SQL source blocks through database shells,
// process whole org documents and manage named connections, using the Cobra CLI
// framework and pterm for terminal output.
package cmd

import (
	"fmt"
	"os"

	"sqlblock/cli/internal/config"
	"sqlblock/cli/internal/dsn"
	"sqlblock/cli/internal/keychain"
	"sqlblock/cli/internal/logging"
	"sqlblock/cli/internal/sqlexec"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
	configPath  string

	appConfig = config.Defaults()
	logger    = logging.Discard()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sqlblock",
	Short: "Run SQL source blocks through sqlite3, duckdb and psql",
	Long: `sqlblock executes SQL source blocks with org-babel header arguments through the
sqlite3, duckdb or psql command-line shells and turns their output into org tables,
terminal tables, JSON or YAML.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "sqlblock %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, pterm.Red("✗ ")+logging.PresentError("", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/sqlblock/config.yaml)")
}

// setup loads configuration and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	if verbose {
		os.Setenv(logging.VerboseEnv, "1")
	}

	var (
		c   config.Config
		err error
	)
	if configPath != "" {
		c, err = config.LoadFile(configPath)
	} else {
		c, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	appConfig = c
	logger = logging.New(c.LogLevel, c.LogJSON, os.Stderr)
	logger.Debug("configuration loaded", logger.Args("format", c.Format, "timeout", c.Timeout.String()))
	return nil
}

// newExecutor builds an executor from the loaded configuration.
func newExecutor() *sqlexec.Executor {
	e := sqlexec.New(appConfig.Programs.Map())
	e.Logger = logger
	e.Timeout = appConfig.Timeout
	e.Aliases = keychainAliases{}
	return e
}

// keychainAliases opens the keychain only when a block references an alias.
type keychainAliases struct{}

func (keychainAliases) LoadAlias(name string) (string, error) {
	km, err := keychain.GetManager()
	if err != nil {
		return "", err
	}
	return km.LoadAlias(name)
}

// engineNames lists engines for flag help.
func engineNames() []string {
	names := make([]string, len(dsn.Engines))
	for i, e := range dsn.Engines {
		names[i] = string(e)
	}
	return names
}
