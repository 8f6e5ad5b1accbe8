package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"reqloop/internal/request"
	"reqloop/internal/shared/logger"
	"reqloop/internal/shared/types"
	"reqloop/internal/sink"
	"reqloop/placeholder"
	"reqloop/proxypool"
	"reqloop/sender"
)

// missingProxyDelay gives the operator a chance to abort when the tool is
// about to run direct only because the proxy file was empty or missing.
const missingProxyDelay = 10 * time.Second

// Loop drives the replay cycles: list request files, drain them through a
// bounded worker pool, sleep, repeat. Proxy exhaustion terminates the run;
// every other per-file failure is logged and skipped.
type Loop struct {
	cfg      *types.Config
	pool     *proxypool.Pool
	resolver *placeholder.Resolver
	sender   *sender.Sender
	sink     *sink.Sink
	log      zerolog.Logger
}

func New(cfg *types.Config, pool *proxypool.Pool, resolver *placeholder.Resolver, snd *sender.Sender, snk *sink.Sink) *Loop {
	if cfg.Workers <= 0 {
		// SetLimit(0) would make every worker block forever.
		cfg.Workers = 1
	}
	return &Loop{
		cfg:      cfg,
		pool:     pool,
		resolver: resolver,
		sender:   snd,
		sink:     snk,
		log:      logger.WithComponent("App"),
	}
}

// Run executes cycles until the request directory is empty, the context is
// cancelled, or the proxy pool is exhausted with no direct fallback.
func (l *Loop) Run(ctx context.Context) error {
	if !l.pool.HasProxies() {
		if err := l.warnNoProxies(ctx); err != nil {
			return nil
		}
	}

	l.log.Info().
		Str("requests_dir", l.cfg.RequestsDir).
		Int("workers", l.cfg.Workers).
		Msg("Starting sender.")
	if l.sink.Enabled() {
		l.log.Info().Str("mode", l.sink.Describe()).Msg("Response dump enabled.")
	}

	interval := time.Duration(l.cfg.IntervalSeconds) * time.Second

	for {
		files, err := request.ListFiles(l.cfg.RequestsDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			l.log.Warn().Str("dir", l.cfg.RequestsDir).Msg("No *.txt request files found, stopping.")
			return nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(l.cfg.Workers)
		for _, path := range files {
			g.Go(func() error {
				return l.processFile(gctx, path)
			})
		}
		if err := g.Wait(); err != nil {
			if errors.Is(err, sender.ErrProxyExhausted) {
				l.log.Error().Msg("Proxy list exhausted. Terminating.")
				return err
			}
			if errors.Is(err, context.Canceled) {
				l.log.Info().Msg("Interrupted, exiting cleanly.")
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			l.log.Info().Msg("Interrupted, exiting cleanly.")
			return nil
		case <-time.After(interval):
		}
	}
}

// processFile runs one request file through resolve, parse, send and sink.
// Per-file failures are logged and swallowed so sibling workers keep going;
// only proxy exhaustion and context cancellation propagate.
func (l *Loop) processFile(ctx context.Context, path string) error {
	name := filepath.Base(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		l.log.Error().Str("file", name).Err(err).Msg("Failed to read request file.")
		return nil
	}

	text, err := l.resolver.Replace(string(raw))
	if err != nil {
		l.log.Error().Str("file", name).Err(err).Msg("Failed to resolve placeholders.")
		return nil
	}

	parsed, err := request.Parse(text)
	if err != nil {
		l.log.Error().Str("file", name).Err(err).Msg("Failed to parse request.")
		return nil
	}

	result, err := l.sender.Send(ctx, parsed)
	if err != nil {
		if errors.Is(err, sender.ErrProxyExhausted) || ctx.Err() != nil {
			return err
		}
		l.log.Error().Str("file", name).Err(err).Msg("Failed to send request.")
		return nil
	}

	event := l.log.Info().
		Str("file", name).
		Str("method", parsed.Method).
		Str("path", parsed.Path).
		Int("status", result.Response.StatusCode).
		Int("bytes", len(result.Response.Body)).
		Str("via", result.Mode.String())
	if result.Proxy != "" {
		event = event.Str("proxy", result.Proxy)
	}
	event.Msg("Request sent.")

	if l.sink.Enabled() {
		if err := l.sink.Write(result.Response); err != nil {
			l.log.Error().Str("file", name).Err(err).Msg("Failed to write response.")
		}
	}
	return nil
}

// warnNoProxies logs the startup banner and, unless proxies were deliberately
// disabled, waits before running direct. Returns the context error when the
// wait is interrupted.
func (l *Loop) warnNoProxies(ctx context.Context) error {
	l.log.Warn().
		Str("file", l.cfg.ProxyConf.File).
		Msg("NO PROXIES FOUND - RUNNING DIRECT. Add proxies or use --direct to skip the startup delay.")

	if l.pool.Disabled() {
		l.log.Warn().Msg("--direct flag: running direct with no delay.")
		return nil
	}

	l.log.Warn().Msgf("Starting in %s because proxies are missing...", missingProxyDelay)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(missingProxyDelay):
		return nil
	}
}
