package cmd

import (
	"fmt"

	"sqlblock/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	explainFlags blockFlags
	explainQuery bool
)

var explainCmd = &cobra.Command{
	Use:   "explain [FILE|-]",
	Short: "Print the shell command run would execute",
	Long: `The explain command resolves the header arguments like run does and prints the
database shell command line without executing it. Passwords are masked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		block, err := explainFlags.block(cmd, args)
		if err != nil {
			return err
		}
		plan, err := newExecutor().Prepare(block)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, logging.Mask(plan.Invocation.String()))
		if explainQuery {
			fmt.Fprint(out, plan.Invocation.Stdin)
		}
		return nil
	},
}

func init() {
	explainFlags.register(explainCmd)
	explainCmd.Flags().BoolVar(&explainQuery, "query", false, "Also print the query text sent on stdin")
	rootCmd.AddCommand(explainCmd)
}
