package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/deusflow/digest/internal/logger"
)

// HostPacer spaces out requests to the same host so feed and article fetches
// don't hammer a site. Different hosts don't wait for each other.
type HostPacer struct {
	mu       sync.Mutex
	delay    time.Duration
	next     map[string]time.Time
	requests int
	waited   time.Duration
}

// NewHostPacer returns a pacer that keeps at least delay between two
// requests to one host. A zero delay disables pacing.
func NewHostPacer(delay time.Duration) *HostPacer {
	return &HostPacer{
		delay: delay,
		next:  make(map[string]time.Time),
	}
}

// Wait blocks until a request to rawURL's host may start, or ctx is done.
func (p *HostPacer) Wait(ctx context.Context, rawURL string) error {
	if p == nil || p.delay <= 0 {
		return ctx.Err()
	}

	host := hostOf(rawURL)

	p.mu.Lock()
	now := time.Now()
	slot := now
	if n, ok := p.next[host]; ok && n.After(now) {
		slot = n
	}
	p.next[host] = slot.Add(p.delay)
	p.requests++
	wait := slot.Sub(now)
	p.waited += wait
	p.mu.Unlock()

	if wait <= 0 {
		return ctx.Err()
	}

	logger.Debug("pacing request", "host", host, "wait", wait)

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GetStats returns pacing statistics.
func (p *HostPacer) GetStats() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	return map[string]interface{}{
		"paced_requests": p.requests,
		"paced_hosts":    len(p.next),
		"total_wait_ms":  p.waited.Milliseconds(),
		"delay_ms":       p.delay.Milliseconds(),
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
