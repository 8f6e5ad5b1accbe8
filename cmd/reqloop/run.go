package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reqloop/internal/app"
	"reqloop/internal/shared/logger"
	"reqloop/internal/sink"
	"reqloop/placeholder"
	"reqloop/proxypool"
	"reqloop/sender"
)

func newRunCmd(configDir *string) *cobra.Command {
	var (
		direct    bool
		proxyFile string
		response  string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay request files on a loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			if proxyFile != "" {
				cfg.ProxyConf.File = proxyFile
			}
			if workers > 0 {
				cfg.Workers = workers
			}

			var endpoints []string
			if !direct {
				endpoints, err = proxypool.LoadFile(cfg.ProxyConf.File)
				if err != nil {
					return err
				}
			}

			persistPath := cfg.ProxyConf.File
			if direct {
				persistPath = ""
			}
			pool := proxypool.New(endpoints, direct, persistPath)
			if pool.HasProxies() {
				logger.Info().
					Int("count", len(endpoints)).
					Str("file", cfg.ProxyConf.File).
					Msg("Loaded proxies.")
			}

			store := placeholder.NewStore(cfg.PlaceholderConf.Dir)
			gen := placeholder.NewGenerator(placeholder.NewFakeitProvider())
			resolver := placeholder.NewResolver(store, gen, placeholder.Rotation(cfg.PlaceholderConf.Rotation))

			transport := sender.NewHTTPTransport(cfg.CommonConf)
			snd := sender.New(transport, pool, cfg.VerifyTLS)

			snk, err := sink.New(response, cfg.ResponseConf.Dir)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.New(cfg, pool, resolver, snd, snk).Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&direct, "direct", false, "ignore the proxy file and send directly")
	cmd.Flags().StringVar(&proxyFile, "proxy-file", "", "path to proxy list file (default from config)")
	cmd.Flags().StringVar(&response, "response", "", "dump responses; without FILE print to console, with FILE append under the responses dir")
	cmd.Flags().Lookup("response").NoOptDefVal = sink.ConsoleTarget
	cmd.Flags().IntVar(&workers, "workers", 0, "number of parallel workers (default from config)")
	return cmd
}
