package sender

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"reqloop/internal/request"
	"reqloop/internal/shared/logger"
)

// ErrProxyExhausted is returned once no proxy candidates remain and direct
// fallback is not permitted. It is the only error that terminates a whole run.
var ErrProxyExhausted = errors.New("proxy list exhausted")

// ProxySource is the pool surface the sender needs. proxypool.Pool satisfies it.
type ProxySource interface {
	Next() (endpoint string, ok bool)
	MarkBad(endpoint string)
	Exhausted() bool
}

// EgressMode identifies which path served a request.
type EgressMode int

const (
	EgressProxy EgressMode = iota
	EgressDirect
	EgressDirectInsecure
)

func (m EgressMode) String() string {
	switch m {
	case EgressProxy:
		return "proxy"
	case EgressDirectInsecure:
		return "direct-insecure"
	default:
		return "direct"
	}
}

// Result pairs a terminal response with the egress that served it.
type Result struct {
	Response *Response
	Mode     EgressMode
	Proxy    string // set when Mode is EgressProxy
}

// sendState names the two states of the per-request retry machine.
type sendState int

const (
	stateSelectingProxy sendState = iota
	stateSending
)

// Sender executes the request-with-failover protocol: proxy selection,
// one TLS-verification-downgrade retry per egress, error classification
// and proxy eviction.
type Sender struct {
	transport Transport
	pool      ProxySource
	verifyTLS bool
	log       zerolog.Logger
}

func New(transport Transport, pool ProxySource, verifyTLS bool) *Sender {
	return &Sender{
		transport: transport,
		pool:      pool,
		verifyTLS: verifyTLS,
		log:       logger.WithComponent("Sender"),
	}
}

// Send runs parsed through the retry state machine until a terminal response
// or a terminal failure.
//
// SelectingProxy picks the next egress (sticky while pinned) and resets the
// TLS downgrade for the new attempt. Sending performs the exchange:
//   - TLS error with verification still on: retry the same egress insecurely.
//   - Any other transport error through a proxy: evict it, back to selection.
//   - Any other transport error direct: propagate, nothing left to evict.
//   - Non-ok status through a proxy is treated as a proxy fault: evict and
//     move on. Direct responses are returned as-is whatever their status.
func (s *Sender) Send(ctx context.Context, parsed *request.Parsed) (*Result, error) {
	state := stateSelectingProxy
	var proxyURL string
	var insecure bool
	var downgraded bool // insecure due to a TLS retry, not configuration

	for {
		switch state {
		case stateSelectingProxy:
			endpoint, ok := s.pool.Next()
			if !ok && s.pool.Exhausted() {
				return nil, ErrProxyExhausted
			}
			proxyURL = endpoint
			insecure = !s.verifyTLS
			downgraded = false
			state = stateSending

		case stateSending:
			resp, err := s.transport.Do(ctx, parsed, proxyURL, insecure)
			switch {
			case err == nil && proxyURL != "" && !resp.OK():
				s.log.Warn().
					Str("proxy", proxyURL).
					Int("status", resp.StatusCode).
					Msg("Proxy returned failing status; dropping and trying next.")
				s.pool.MarkBad(proxyURL)
				if s.pool.Exhausted() {
					return nil, ErrProxyExhausted
				}
				state = stateSelectingProxy

			case err == nil:
				result := &Result{Response: resp, Mode: EgressDirect}
				if proxyURL != "" {
					result.Mode = EgressProxy
					result.Proxy = proxyURL
				} else if downgraded {
					result.Mode = EgressDirectInsecure
					s.log.Warn().Msg("TLS verification was disabled for this request (direct).")
				}
				return result, nil

			case IsTLSError(err) && !insecure:
				s.log.Warn().
					Str("egress", egressLabel(proxyURL)).
					Msg("TLS error; retrying without verification.")
				insecure = true
				downgraded = true
				// Same egress, same state.

			case proxyURL != "":
				s.log.Error().
					Str("proxy", proxyURL).
					Err(err).
					Msg("Proxy failed, removing.")
				s.pool.MarkBad(proxyURL)
				if s.pool.Exhausted() {
					return nil, ErrProxyExhausted
				}
				state = stateSelectingProxy

			default:
				return nil, err
			}
		}
	}
}

func egressLabel(proxyURL string) string {
	if proxyURL == "" {
		return "direct"
	}
	return proxyURL
}
