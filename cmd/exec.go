// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"

	"sqlblock/cli/internal/document"
	"sqlblock/cli/internal/render"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var execInPlace bool

var execCmd = &cobra.Command{
	Use:   "exec DOCUMENT",
	Short: "Execute every SQL block of an org document",
	Long: `The exec command runs each sqlite, duckdb and postgresql source block of an org
document in order and writes the result of each block under its #+RESULTS: line.
Header arguments come from #+PROPERTY: header-args lines, #+header: lines and the
#+begin_src line, later sources overriding earlier ones.

By default the updated document is printed; --in-place rewrites the file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		stop := startSpinner("executing " + path)
		out, reports, err := document.Process(cmd.Context(), string(src), newExecutor(), render.OrgString)
		stop()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		for _, r := range reports {
			logger.Debug("block processed", logger.Args("line", r.Line, "language", r.Language, "silent", r.Silent, "skipped", r.Skipped))
		}

		if !execInPlace {
			_, err := fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		pterm.Success.Printfln("%s: %d block(s) executed", path, len(reports))
		return nil
	},
}

func init() {
	execCmd.Flags().BoolVarP(&execInPlace, "in-place", "i", false, "Rewrite DOCUMENT instead of printing it")
	rootCmd.AddCommand(execCmd)
}
