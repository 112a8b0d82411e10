package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", config.DefaultPath, "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().String("store", "", "")
	cmd.Flags().String("store-path", "", "")
	cmd.Flags().String("redis-addr", "", "")
	cmd.Flags().String("debug-addr", "", "")
	cmd.Flags().String("admin-addr", "", "")
	cmd.Flags().Bool("suspend-at-start", true, "")
	cmd.Flags().StringArrayP("define", "D", nil, "")
	return cmd
}

func TestParseDefines(t *testing.T) {
	cmd := newFlagCmd()
	require.NoError(t, cmd.Flags().Set("define", "version=2.0"))
	require.NoError(t, cmd.Flags().Set("define", "empty="))

	props, err := parseDefines(cmd)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"version": "2.0", "empty": ""}, props)

	require.NoError(t, cmd.Flags().Set("define", "novalue"))
	_, err = parseDefines(cmd)
	assert.Error(t, err)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waypoint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug_addr: \":9000\"\nlog_level: warn\nstore:\n  kind: file\n"), 0644))

	cmd := newFlagCmd()
	require.NoError(t, cmd.Flags().Set("config", path))
	require.NoError(t, cmd.Flags().Set("admin-addr", ":9001"))
	require.NoError(t, cmd.Flags().Set("suspend-at-start", "false"))
	require.NoError(t, cmd.Flags().Set("store", "memory"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.DebugAddr)
	assert.Equal(t, ":9001", cfg.AdminAddr)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.SuspendAtStart)
	assert.Equal(t, config.StoreMemory, cfg.Store.Kind)
}

func TestLoadConfig_RejectsUnknownStoreFlag(t *testing.T) {
	cmd := newFlagCmd()
	require.NoError(t, cmd.Flags().Set("config", filepath.Join(t.TempDir(), "none.yaml")))
	require.NoError(t, cmd.Flags().Set("store", "etcd"))

	_, err := loadConfig(cmd)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "waypoint version ")
}
