// Package resource implements the shared limits of the loading pipeline.
//
// The Controller governs three resources:
//
//   - Memory: bytes retained by the image cache (tracking only)
//   - Worker slots: one slot per decode worker; the dispatcher holds a slot
//     before it takes a task off the queue
//   - IO: a token bucket limiting how fast sources are read
//
// # Worker Slots
//
//	rc := resource.NewController(resource.Config{Workers: 4})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 50 * 1024 * 1024,
//	})
//
//	// Blocks until 4MB worth of tokens were granted, in burst-sized steps.
//	if err := rc.AcquireIO(ctx, 4<<20); err != nil {
//	    return err
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
