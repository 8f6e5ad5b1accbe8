package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqloop/internal/request"
	"reqloop/internal/shared/types"
	"reqloop/internal/sink"
	"reqloop/placeholder"
	"reqloop/proxypool"
	"reqloop/sender"
)

// stubTransport records the requests it sees and replies via respond.
type stubTransport struct {
	mu      sync.Mutex
	paths   []string
	respond func(parsed *request.Parsed, proxyURL string, insecure bool) (*sender.Response, error)
}

func (t *stubTransport) Do(_ context.Context, parsed *request.Parsed, proxyURL string, insecure bool) (*sender.Response, error) {
	t.mu.Lock()
	t.paths = append(t.paths, parsed.Path)
	t.mu.Unlock()
	return t.respond(parsed, proxyURL, insecure)
}

func (t *stubTransport) seenPaths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.paths...)
}

func writeRequestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func testConfig(t *testing.T) *types.Config {
	t.Helper()
	cfg := types.NewDefaultConfig()
	cfg.RequestsDir = t.TempDir()
	cfg.PlaceholderConf.Dir = t.TempDir()
	cfg.IntervalSeconds = 1
	cfg.Workers = 2
	return cfg
}

func newTestLoop(cfg *types.Config, pool *proxypool.Pool, transport sender.Transport) *Loop {
	store := placeholder.NewStore(cfg.PlaceholderConf.Dir)
	resolver := placeholder.NewResolver(store, placeholder.NewGenerator(nil), placeholder.RotationSequential)
	snd := sender.New(transport, pool, cfg.VerifyTLS)
	snk, _ := sink.New("", cfg.ResponseConf.Dir)
	return New(cfg, pool, resolver, snd, snk)
}

func TestRunTerminatesOnProxyExhaustion(t *testing.T) {
	cfg := testConfig(t)
	writeRequestFile(t, cfg.RequestsDir, "login.txt", "GET /login HTTP/1.1\nHost: example.com\n\n")

	pool := proxypool.New([]string{"http://a:1"}, false, "")
	transport := &stubTransport{
		respond: func(*request.Parsed, string, bool) (*sender.Response, error) {
			return nil, errors.New("proxy unreachable")
		},
	}

	// The last proxy dies with no direct fallback: the whole run must stop,
	// not just the one request.
	err := newTestLoop(cfg, pool, transport).Run(context.Background())
	assert.ErrorIs(t, err, sender.ErrProxyExhausted)
	assert.True(t, pool.Exhausted())
}

func TestRunPerFileErrorsDoNotAbortSiblings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workers = 0 // non-positive worker counts are clamped, not a hang
	writeRequestFile(t, cfg.RequestsDir, "broken.txt", "this is not a request")
	writeRequestFile(t, cfg.RequestsDir, "good.txt", "GET /ok HTTP/1.1\nHost: example.com\n\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := proxypool.New(nil, true, "")
	transport := &stubTransport{
		respond: func(*request.Parsed, string, bool) (*sender.Response, error) {
			cancel() // stop after the first cycle
			return &sender.Response{StatusCode: 200, Status: "200 OK", URL: "https://example.com/ok"}, nil
		},
	}

	loop := newTestLoop(cfg, pool, transport)
	assert.Equal(t, 1, cfg.Workers)

	err := loop.Run(ctx)
	require.NoError(t, err)

	// The malformed file is logged and skipped; only the good request
	// reaches the transport.
	assert.Equal(t, []string{"/ok"}, transport.seenPaths())
}

func TestRunStopsWhenNoRequestFiles(t *testing.T) {
	cfg := testConfig(t)

	pool := proxypool.New(nil, true, "")
	transport := &stubTransport{
		respond: func(*request.Parsed, string, bool) (*sender.Response, error) {
			return nil, errors.New("must not be called")
		},
	}

	err := newTestLoop(cfg, pool, transport).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, transport.seenPaths())
}
