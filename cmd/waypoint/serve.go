package main

import (
	"fmt"

	"github.com/aretw0/waypoint/internal/cli"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin API over the status store",
	Long:  `Starts a read-only HTTP API exposing the session statuses of the configured store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := createLogger(cfg)
		if err != nil {
			return err
		}

		return withStore(cmd, func(store ports.StatusStore) error {
			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			fmt.Fprintf(cmd.OutOrStdout(), "Starting Waypoint admin API on %s\n", addr)
			if err := cli.Serve(ctx, addr, store, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Waypoint admin API stopped gracefully")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":7101", "Address to listen on")
}
