package sender

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"reqloop/internal/request"
	"reqloop/internal/shared/types"
)

// Response is the transport-agnostic view of a completed HTTP exchange.
type Response struct {
	StatusCode int
	Status     string
	URL        string
	Headers    http.Header
	Body       []byte
}

// OK mirrors the transport's "ok" predicate: any 2xx or 3xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// Transport executes one HTTP exchange over an optional proxy endpoint.
// Implementations must be safe for concurrent use.
type Transport interface {
	Do(ctx context.Context, parsed *request.Parsed, proxyURL string, insecure bool) (*Response, error)
}

// HTTPTransport is the real net/http backed Transport. Clients are cached per
// (proxy, insecure) pair so repeated sends reuse connections.
type HTTPTransport struct {
	timeout     time.Duration
	scheme      string
	defaultHost string
	skipHeaders map[string]struct{}

	mu      sync.Mutex
	clients map[clientKey]*http.Client
}

type clientKey struct {
	proxy    string
	insecure bool
}

func NewHTTPTransport(cfg types.CommonConf) *HTTPTransport {
	return &HTTPTransport{
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		scheme:      cfg.Scheme,
		defaultHost: cfg.DefaultHost,
		skipHeaders: cfg.SkipHeaderSet(),
		clients:     make(map[clientKey]*http.Client),
	}
}

func (t *HTTPTransport) Do(ctx context.Context, parsed *request.Parsed, proxyURL string, insecure bool) (*Response, error) {
	target, err := t.targetURL(parsed)
	if err != nil {
		return nil, err
	}
	client, err := t.client(proxyURL, insecure)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, parsed.Method, target, strings.NewReader(parsed.Body))
	if err != nil {
		return nil, err
	}
	for name, value := range parsed.Headers {
		if _, skip := t.skipHeaders[strings.ToLower(name)]; skip {
			continue
		}
		if strings.EqualFold(name, "Host") {
			req.Host = value
			continue
		}
		req.Header.Set(name, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		URL:        resp.Request.URL.String(),
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// targetURL composes the absolute URL: the request path wins when it is
// already absolute, otherwise scheme + DefaultHost (or the Host header).
func (t *HTTPTransport) targetURL(parsed *request.Parsed) (string, error) {
	lower := strings.ToLower(parsed.Path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return parsed.Path, nil
	}
	host := t.defaultHost
	if host == "" {
		for name, value := range parsed.Headers {
			if strings.EqualFold(name, "Host") {
				host = value
				break
			}
		}
	}
	if host == "" {
		return "", fmt.Errorf("host header is missing and no default host is configured")
	}
	return fmt.Sprintf("%s://%s%s", t.scheme, host, parsed.Path), nil
}

func (t *HTTPTransport) client(proxyURL string, insecure bool) (*http.Client, error) {
	key := clientKey{proxy: proxyURL, insecure: insecure}

	t.mu.Lock()
	defer t.mu.Unlock()
	if client, ok := t.clients[key]; ok {
		return client, nil
	}
	client, err := NewClient(proxyURL, insecure, t.timeout)
	if err != nil {
		return nil, err
	}
	t.clients[key] = client
	return client, nil
}
