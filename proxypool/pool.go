package proxypool

import (
	"sync"

	"github.com/rs/zerolog"

	"reqloop/internal/shared/logger"
)

// Pool owns the mutable list of candidate egress proxies. Selection is
// round-robin with sticky current pinning: one request's internal retries
// keep hitting the same proxy until it is explicitly marked bad, and
// rotation only advances between distinct top-level selections.
// Safe for concurrent use.
type Pool struct {
	mu            sync.Mutex
	candidates    []string
	cursor        int
	current       string
	exhausted     bool
	ignoreProxies bool
	initialCount  int
	warnedEmpty   bool
	filePath      string // "" disables persistence
	log           zerolog.Logger
}

// New creates a pool over the given candidates. With ignoreProxies set the
// pool never hands out a proxy and direct sends are always permitted.
// filePath, when non-empty, is rewritten with the surviving list after
// every eviction.
func New(candidates []string, ignoreProxies bool, filePath string) *Pool {
	return &Pool{
		candidates:    candidates,
		ignoreProxies: ignoreProxies,
		initialCount:  len(candidates),
		warnedEmpty:   len(candidates) == 0,
		filePath:      filePath,
		log:           logger.WithComponent("ProxyPool"),
	}
}

// HasProxies reports whether proxy usage is enabled and candidates remain.
func (p *Pool) HasProxies() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.ignoreProxies && len(p.candidates) > 0
}

// Disabled reports whether proxy usage was deliberately turned off.
func (p *Pool) Disabled() bool {
	return p.ignoreProxies
}

// AllowDirectFallback reports whether sends may go direct: proxies were
// deliberately disabled, or none were ever configured. This distinguishes
// "disabled" from "all died".
func (p *Pool) AllowDirectFallback() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ignoreProxies || p.initialCount == 0
}

// Exhausted reports the terminal flag: no candidates remain and direct
// fallback is not allowed. Once set it never reverts.
func (p *Pool) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exhausted
}

// Next returns the egress proxy for the next attempt. A pinned current
// endpoint is returned unchanged while it is still a candidate. Otherwise
// the cursor advances round-robin and the selected endpoint becomes the new
// pin. ok is false when the send should go direct (or the pool is exhausted).
func (p *Pool) Next() (endpoint string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != "" && p.indexOf(p.current) >= 0 {
		return p.current, true
	}
	if p.ignoreProxies || len(p.candidates) == 0 {
		return "", false
	}
	proxy := p.candidates[p.cursor%len(p.candidates)]
	p.cursor = (p.cursor + 1) % len(p.candidates)
	p.current = proxy
	return proxy, true
}

// MarkBad evicts endpoint from the pool, clears the pin if it matched and
// persists the surviving list. No-op if the endpoint is absent. Cursor is
// adjusted so rotation order is preserved across the removal.
func (p *Pool) MarkBad(endpoint string) {
	if endpoint == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOf(endpoint)
	if idx < 0 {
		return
	}
	p.candidates = append(p.candidates[:idx], p.candidates[idx+1:]...)
	if p.cursor > idx {
		p.cursor--
	}
	if endpoint == p.current {
		p.current = ""
	}

	if len(p.candidates) == 0 {
		if !p.allowDirectLocked() {
			p.exhausted = true
			p.log.Error().Msg("Proxy list exhausted; stopping (no direct fallback).")
		} else if !p.warnedEmpty {
			p.log.Warn().Msg("Proxy list is empty, running direct.")
			p.warnedEmpty = true
		}
	}

	p.persistLocked()
}

// Remaining returns the current number of candidates.
func (p *Pool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.candidates)
}

func (p *Pool) allowDirectLocked() bool {
	return p.ignoreProxies || p.initialCount == 0
}

func (p *Pool) indexOf(endpoint string) int {
	for i, c := range p.candidates {
		if c == endpoint {
			return i
		}
	}
	return -1
}

// persistLocked rewrites the backing file with the surviving candidates.
// Best effort: failures are logged and in-memory state stays authoritative.
func (p *Pool) persistLocked() {
	if p.filePath == "" {
		return
	}
	if err := SaveList(p.filePath, p.candidates); err != nil {
		p.log.Error().Err(err).Str("path", p.filePath).Msg("Failed to update proxy file.")
	}
}
