package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// Workers is the number of decode worker slots.
	// If 0, defaults to 1.
	Workers int64

	// IOLimitBytesPerSec is the maximum source read throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages memory, worker slots and IO throughput.
type Controller struct {
	memUsed atomic.Int64

	workerSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	c := &Controller{
		workerSem: semaphore.NewWeighted(cfg.Workers),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// TrackMemory records bytes retained by the cache. The cache enforces its
// own budget, so tracking never refuses.
func (c *Controller) TrackMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	c.memUsed.Add(bytes)
}

// ReleaseMemory records bytes no longer retained.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireWorker reserves a worker slot, blocking while all slots are busy.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workerSem.Acquire(ctx, 1)
}

// ReleaseWorker releases a worker slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workerSem.Release(1)
}

// AcquireIO waits until the IO limit allows bytes to be read.
// Requests larger than the bucket are granted in burst-sized steps.
func (c *Controller) AcquireIO(ctx context.Context, bytes int64) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := int64(c.ioLimiter.Burst())
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, int(n)); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
