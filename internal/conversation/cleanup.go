package conversation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultCleanupInterval is how often the sweeper looks for idle records.
const DefaultCleanupInterval = 1 * time.Minute

// CleanupService periodically removes conversations idle longer than a TTL.
// The store itself never evicts; running this service is the opt-in
// retention policy for long-lived deployments.
type CleanupService struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewCleanupService creates a cleanup service sweeping at the default
// interval. A non-positive ttl yields a service whose sweeps remove
// nothing.
func NewCleanupService(store *Store, ttl time.Duration, logger *slog.Logger) *CleanupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupService{
		store:    store,
		ttl:      ttl,
		interval: DefaultCleanupInterval,
		logger:   logger.With(slog.String("component", "conversation.cleanup")),
	}
}

// WithInterval overrides the sweep interval. Intended for tests.
func (c *CleanupService) WithInterval(interval time.Duration) *CleanupService {
	if interval > 0 {
		c.interval = interval
	}
	return c
}

// Start begins periodic sweeps. Calling Start on a running service is a
// no-op.
func (c *CleanupService) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.run(sweepCtx)
}

// Stop cancels the sweep goroutine and waits for it to exit.
func (c *CleanupService) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// IsRunning reports whether the sweep goroutine is active.
func (c *CleanupService) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *CleanupService) run(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		c.running = false
		if c.done != nil {
			close(c.done)
		}
		c.mu.Unlock()
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "Cleanup service stopping")
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *CleanupService) sweep(ctx context.Context) {
	start := time.Now()
	removed := c.store.CleanupExpired(c.ttl)

	if removed > 0 {
		c.logger.InfoContext(ctx, "Removed idle conversations",
			slog.Int("removed", removed),
			slog.Duration("duration", time.Since(start)),
		)
	}

	c.logger.DebugContext(ctx, "Conversation count after sweep",
		slog.Int("total", c.store.Len()),
	)
}
