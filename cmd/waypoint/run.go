package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/waypoint/internal/cli"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <plan.yaml> [targets...]",
	Short: "Run a build plan, optionally under a debug session",
	Long: `Runs the targets of a build plan (or its default target) with their dependencies.
With --debug-addr the build waits for one debug client before starting.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := createLogger(cfg)
		if err != nil {
			return err
		}

		props, err := parseDefines(cmd)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = cli.Run(ctx, cli.RunOptions{
			PlanPath:   args[0],
			Targets:    args[1:],
			Properties: props,
			Config:     cfg,
			Logger:     logger,
			Output:     cmd.OutOrStdout(),
		})
		switch {
		case err == nil:
			fmt.Fprintln(cmd.OutOrStdout(), ">>> Build finished.")
			return nil
		case ctx.Signal() != nil:
			fmt.Fprintf(cmd.OutOrStdout(), "\n>>> Interrupted (%v).\n", ctx.Signal())
			return nil
		case errors.Is(err, domain.ErrSessionTerminated):
			fmt.Fprintln(cmd.OutOrStdout(), ">>> Build terminated by the debug client.")
			return err
		default:
			return err
		}
	},
}

// parseDefines turns -D name=value flags into properties.
func parseDefines(cmd *cobra.Command) (map[string]string, error) {
	defines, _ := cmd.Flags().GetStringArray("define")
	props := make(map[string]string, len(defines))
	for _, d := range defines {
		name, value, ok := strings.Cut(d, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid property %q, want name=value", d)
		}
		props[name] = value
	}
	return props, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("debug-addr", "", "Accept a debug client on this address before building (e.g. :7100)")
	runCmd.Flags().String("admin-addr", "", "Serve the admin API on this address while building (e.g. :7101)")
	runCmd.Flags().Bool("suspend-at-start", true, "Suspend before the first target until the client resumes")
	runCmd.Flags().Bool("target-breakpoints", false, "Allow breakpoints on target declarations")
	runCmd.Flags().StringArrayP("define", "D", nil, "Set a property (name=value); wins over the plan")
}
