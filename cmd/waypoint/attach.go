package main

import (
	"os"

	"github.com/aretw0/waypoint/internal/cli"
	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach <addr>",
	Short: "Attach an interactive client to a debug session",
	Long: `Connects to a build started with 'waypoint run --debug-addr'.

Shortcuts:
  b file:line   add a breakpoint
  d file:line   remove a breakpoint
  s / n / r     step into / over / return
  c             resume
  p             suspend at the next task
  bt / v        show the stack / properties
  q             terminate the build

Protocol lines (e.g. STEP_INTO) are sent as typed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noColor, _ := cmd.Flags().GetBool("no-color")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Attach(ctx, cli.AttachOptions{
			Addr:  args[0],
			In:    os.Stdin,
			Out:   os.Stdout,
			Color: !noColor && cli.IsTerminal(os.Stdout),
		})
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
	attachCmd.Flags().Bool("no-color", false, "Disable coloured output")
}
