package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aretw0/waypoint/internal/cli"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect published debug session statuses",
	Long:  `List, inspect, and remove the session statuses kept in the configured status store.`,
}

var sessionsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.StatusStore) error {
			ids, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing sessions: %w", err)
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBUILD\tSTATE\tREASON\tLOCATION")
			for _, id := range ids {
				st, err := store.Load(cmd.Context(), id)
				if err != nil {
					continue
				}
				loc := "-"
				if !st.Location.IsZero() {
					loc = st.Location.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", st.ID, st.Build, st.State, st.Reason, loc)
			}
			return w.Flush()
		})
	},
}

var sessionsInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the status of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.StatusStore) error {
			st, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", args[0], err)
			}
			data, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		})
	},
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.StatusStore) error {
			failed := false
			for _, id := range args {
				if err := store.Delete(cmd.Context(), id); err != nil {
					fmt.Fprintf(os.Stderr, "Error removing '%s': %v\n", id, err)
					failed = true
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
			}
			if failed {
				return fmt.Errorf("some sessions could not be removed")
			}
			return nil
		})
	},
}

func withStore(cmd *cobra.Command, fn func(ports.StatusStore) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := cli.OpenStore(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(store)
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsLsCmd)
	sessionsCmd.AddCommand(sessionsInspectCmd)
	sessionsCmd.AddCommand(sessionsRmCmd)
}
