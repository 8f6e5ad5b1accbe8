package proxypool

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"reqloop/internal/shared/logger"
	"reqloop/sender"
)

// Checker tests proxy endpoints in parallel against a known URL and rewrites
// the proxy file with the survivors.
type Checker struct {
	checkURL    string
	timeout     time.Duration
	concurrency int
	verifyTLS   bool
	log         zerolog.Logger
}

func NewChecker(checkURL string, timeout time.Duration, concurrency int, verifyTLS bool) *Checker {
	if concurrency <= 0 {
		concurrency = 5
	}
	return &Checker{
		checkURL:    checkURL,
		timeout:     timeout,
		concurrency: concurrency,
		verifyTLS:   verifyTLS,
		log:         logger.WithComponent("ProxyPool/Checker"),
	}
}

// Run checks every endpoint and returns the working ones. destFile, when
// non-empty, is rewritten with the good list.
func (c *Checker) Run(ctx context.Context, endpoints []string, destFile string) []string {
	if len(endpoints) == 0 {
		c.log.Warn().Msg("No proxies to check.")
		return nil
	}

	c.log.Info().
		Int("count", len(endpoints)).
		Str("url", c.checkURL).
		Dur("timeout", c.timeout).
		Msg("Starting proxy check...")

	type outcome struct {
		endpoint string
		ok       bool
		detail   string
	}

	var wg sync.WaitGroup
	results := make(chan outcome, len(endpoints))
	semaphore := make(chan struct{}, c.concurrency)

	for _, endpoint := range endpoints {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(endpoint string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			ok, detail := c.testProxy(ctx, endpoint)
			results <- outcome{endpoint: endpoint, ok: ok, detail: detail}
		}(endpoint)
	}

	wg.Wait()
	close(results)

	good := make([]string, 0, len(endpoints))
	for r := range results {
		if r.ok {
			good = append(good, r.endpoint)
			c.log.Info().Str("proxy", r.endpoint).Str("detail", r.detail).Msg("OK")
		} else {
			c.log.Error().Str("proxy", r.endpoint).Str("detail", r.detail).Msg("BAD")
		}
	}

	c.log.Info().
		Int("good", len(good)).
		Int("total", len(endpoints)).
		Msg("Proxy check finished.")

	if destFile != "" {
		if err := SaveList(destFile, good); err != nil {
			c.log.Error().Err(err).Str("path", destFile).Msg("Failed to write proxy check results.")
		} else {
			c.log.Info().
				Str("path", destFile).
				Int("kept", len(good)).
				Int("removed", len(endpoints)-len(good)).
				Msg("Updated proxy file with working proxies.")
		}
	}

	return good
}

// testProxy fetches the check URL through one endpoint, with the same
// TLS-verification downgrade retry the sender applies.
func (c *Checker) testProxy(ctx context.Context, endpoint string) (bool, string) {
	attempts := []bool{true}
	if c.verifyTLS {
		attempts = []bool{false, true} // verify first, then insecure
	}

	lastDetail := "unknown error"
	for _, insecure := range attempts {
		client, err := sender.NewClient(endpoint, insecure, c.timeout)
		if err != nil {
			return false, err.Error()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.checkURL, nil)
		if err != nil {
			return false, err.Error()
		}

		resp, err := client.Do(req)
		if err != nil {
			lastDetail = err.Error()
			if sender.IsTLSError(err) && !insecure {
				continue // retry without verification
			}
			break
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 400 {
			mode := "verify"
			if insecure {
				mode = "no-verify"
			}
			return true, fmt.Sprintf("HTTP %d (%s)", resp.StatusCode, mode)
		}
		return false, fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return false, lastDetail
}
