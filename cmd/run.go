// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sqlblock/cli/internal/config"
	"sqlblock/cli/internal/dsn"
	apperrors "sqlblock/cli/internal/errors"
	"sqlblock/cli/internal/headerargs"
	"sqlblock/cli/internal/options"
	"sqlblock/cli/internal/render"
	"sqlblock/cli/internal/sqlexec"
	"sqlblock/cli/internal/terminal"

	"github.com/spf13/cobra"
)

// blockFlags are the flags shared by run and explain.
type blockFlags struct {
	args    string
	db      string
	engine  string
	vars    []string
	session string
}

func (f *blockFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.args, "args", "a", "", `Header arguments, e.g. ":db notes.db :colnames yes"`)
	cmd.Flags().StringVar(&f.db, "db", "", "Database file, postgres URL or @alias (overrides :db)")
	cmd.Flags().StringVarP(&f.engine, "engine", "e", "", "Engine: "+strings.Join(engineNames(), ", ")+" (default: detected from the database)")
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "Variable binding name=value, replaces $name in the query (repeatable)")
	cmd.Flags().StringVar(&f.session, "session", "", "Session name (sessions are not supported; only \"none\" is accepted)")
}

// block reads the query body and combines it with the flags into a block.
func (f *blockFlags) block(cmd *cobra.Command, args []string) (sqlexec.Block, error) {
	body, err := readBody(cmd, args)
	if err != nil {
		return sqlexec.Block{}, err
	}

	params, vars, err := headerargs.Parse(f.args)
	if err != nil {
		return sqlexec.Block{}, err
	}
	if f.db != "" {
		params["db"] = f.db
	}
	if cmd.Flags().Changed("session") {
		params["session"] = f.session
	}
	for _, kv := range f.vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return sqlexec.Block{}, apperrors.New(apperrors.InvalidArguments, fmt.Sprintf("--var expects name=value, got %q", kv))
		}
		vars[name] = value
	}

	lang := "sql"
	if f.engine != "" {
		if _, ok := dsn.EngineForLanguage(f.engine); !ok {
			return sqlexec.Block{}, apperrors.New(apperrors.InvalidArguments, fmt.Sprintf("unknown engine %q: use one of %s", f.engine, strings.Join(engineNames(), ", ")))
		}
		lang = f.engine
	}
	return sqlexec.Block{Language: lang, Body: body, Params: params, Vars: vars}, nil
}

// readBody reads the query from the FILE argument, or stdin when it is "-" or absent.
func readBody(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read query: %w", err)
		}
		return string(b), nil
	}
	if len(args) == 0 && terminal.IsInteractive(os.Stdin) {
		return "", errors.New("no query: pass a FILE or pipe the query on stdin")
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read query from stdin: %w", err)
	}
	return string(b), nil
}

var (
	runFlags  blockFlags
	runFormat string
)

var runCmd = &cobra.Command{
	Use:   "run [FILE|-]",
	Short: "Execute one SQL block and print its result",
	Long: `The run command executes one SQL block read from FILE or stdin with the given
header arguments, then prints the normalized result.

Examples:
  echo 'select 1;' | sqlblock run --db notes.db
  sqlblock run query.sql --args ':db notes.db :colnames yes' --format table
  sqlblock run query.sql --db @prod --var tbl=orders`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := runFormat
		if format == "" {
			format = appConfig.Format
		}
		if !config.ValidFormat(format) {
			return apperrors.New(apperrors.InvalidArguments, fmt.Sprintf("invalid format %q: use one of %s", format, strings.Join(config.Formats, ", ")))
		}
		write, err := render.For(format)
		if err != nil {
			return err
		}

		block, err := runFlags.block(cmd, args)
		if err != nil {
			return err
		}

		stop := startSpinner("running query")
		res, err := newExecutor().Execute(cmd.Context(), block)
		stop()
		if err != nil {
			return err
		}

		results, _ := block.Params.String("results")
		if (options.Config{Results: strings.Fields(results)}).HasResult("silent", "none") {
			return nil
		}
		return write(cmd.OutOrStdout(), res)
	},
}

func init() {
	runFlags.register(runCmd)
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "", "Output format: "+strings.Join(config.Formats, ", ")+" (default from config)")
	rootCmd.AddCommand(runCmd)
}
