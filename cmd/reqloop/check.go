package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reqloop/internal/shared/logger"
	"reqloop/proxypool"
)

func newCheckCmd(configDir *string) *cobra.Command {
	var proxyFile string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check all proxies in parallel and rewrite the proxy file with the working ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			if proxyFile != "" {
				cfg.ProxyConf.File = proxyFile
			}

			endpoints, err := proxypool.LoadFile(cfg.ProxyConf.File)
			if err != nil {
				return err
			}
			if len(endpoints) == 0 {
				logger.Warn().Str("file", cfg.ProxyConf.File).Msg("Nothing to test (no proxies).")
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			checker := proxypool.NewChecker(
				cfg.ProxyConf.CheckURL,
				time.Duration(cfg.TimeoutSeconds)*time.Second,
				cfg.ProxyConf.CheckWorkers,
				cfg.VerifyTLS,
			)
			checker.Run(ctx, endpoints, cfg.ProxyConf.File)
			return nil
		},
	}

	cmd.Flags().StringVar(&proxyFile, "proxy-file", "", "path to proxy list file (default from config)")
	return cmd
}
