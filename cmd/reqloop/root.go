package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"reqloop/internal/shared/config"
	"reqloop/internal/shared/logger"
	"reqloop/internal/shared/types"
)

func newRootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:           "reqloop",
		Short:         "Replay templated HTTP requests through a rotating proxy pool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "path to config directory")

	cmd.AddCommand(newRunCmd(&configDir))
	cmd.AddCommand(newCheckCmd(&configDir))
	return cmd
}

// loadConfig layers the ini file over the defaults and brings up logging.
func loadConfig(configDir string) (*types.Config, error) {
	cfg := types.NewDefaultConfig()
	iniPath := filepath.Join(configDir, "reqloop.ini")
	if err := config.Load(cfg, iniPath); err != nil {
		// Use standard fmt before the logger is initialized.
		fmt.Fprintf(os.Stderr, "Fatal: failed to load config file '%s': %v\n", iniPath, err)
		return nil, err
	}
	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: failed to initialize logger: %v\n", err)
		return nil, err
	}
	return cfg, nil
}
