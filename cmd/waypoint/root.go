package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "waypoint",
	Short: "Waypoint runs build plans under an attachable debugger",
	Long: `Waypoint executes YAML build plans and lets a debug client attach to the running build:
set breakpoints on tasks, step into, over and out of them, and inspect the call stack and
properties while the build is suspended.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the waypoint configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	rootCmd.PersistentFlags().String("store", "", "Status store: memory, file or redis; overrides the config file")
	rootCmd.PersistentFlags().String("store-path", "", "Directory of the file status store")
	rootCmd.PersistentFlags().String("redis-addr", "", "Address of the redis status store")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("store") {
		cfg.Store.Kind, _ = flags.GetString("store")
	}
	if flags.Changed("store-path") {
		cfg.Store.Path, _ = flags.GetString("store-path")
	}
	if flags.Changed("redis-addr") {
		cfg.Store.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Lookup("debug-addr") != nil && flags.Changed("debug-addr") {
		cfg.DebugAddr, _ = flags.GetString("debug-addr")
	}
	if flags.Lookup("admin-addr") != nil && flags.Changed("admin-addr") {
		cfg.AdminAddr, _ = flags.GetString("admin-addr")
	}
	if flags.Lookup("suspend-at-start") != nil && flags.Changed("suspend-at-start") {
		cfg.SuspendAtStart, _ = flags.GetBool("suspend-at-start")
	}
	if flags.Lookup("target-breakpoints") != nil && flags.Changed("target-breakpoints") {
		cfg.TargetBreakpoints, _ = flags.GetBool("target-breakpoints")
	}
	return cfg, cfg.Validate()
}

func createLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}
